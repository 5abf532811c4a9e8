package license_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/conflab/roomsvc/internal/license"
	"github.com/conflab/roomsvc/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardPayment(t *testing.T) {
	var received models.PaymentIntent

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := license.NewClient(server.URL)
	err := client.ForwardPayment(context.Background(), &models.PaymentIntent{
		ID:       "pi_123",
		Amount:   4900,
		Currency: "usd",
		Status:   "succeeded",
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_123", received.ID)
	assert.Equal(t, int64(4900), received.Amount)
}

func TestForwardPaymentErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown product", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := license.NewClient(server.URL)
	err := client.ForwardPayment(context.Background(), &models.PaymentIntent{ID: "pi_err"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
}
