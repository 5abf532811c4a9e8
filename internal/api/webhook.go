package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/conflab/roomsvc/internal/config"
	"github.com/conflab/roomsvc/internal/models"
)

// PaymentForwarder forwards succeeded payments to the license server
type PaymentForwarder interface {
	ForwardPayment(ctx context.Context, intent *models.PaymentIntent) error
}

// WebhookHandler processes payment webhook events from Stripe
type WebhookHandler struct {
	cfg       config.StripeConfig
	forwarder PaymentForwarder
}

// NewWebhookHandler creates a webhook handler with the given forwarder,
// reading the rest of its configuration from the environment
func NewWebhookHandler(forwarder PaymentForwarder) *WebhookHandler {
	return NewWebhookHandlerWithConfig(config.GetStripeConfig(), forwarder)
}

// NewWebhookHandlerWithConfig creates a webhook handler with explicit
// configuration; primarily used for testing signature validation
func NewWebhookHandlerWithConfig(cfg config.StripeConfig, forwarder PaymentForwarder) *WebhookHandler {
	return &WebhookHandler{
		cfg:       cfg,
		forwarder: forwarder,
	}
}

// ServeHTTP handles HTTP requests for the webhook endpoint
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only allow POST requests
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// The intake is gated by configuration; acknowledge so the sender stops
	// retrying, but process nothing
	if !h.cfg.WebhookEnabled {
		log.Printf("Payment webhook received while STRIPE_WEBHOOK_ENABLED is off - ignoring")
		writeJSON(w, http.StatusOK, map[string]bool{"received": false})
		return
	}

	// Limit request body size to prevent abuse
	body, err := io.ReadAll(io.LimitReader(r.Body, 1048576)) // 1MB limit
	if err != nil {
		log.Printf("Error reading webhook body: %v", err)
		http.Error(w, "Error reading request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Verify webhook signature if a secret is configured
	if h.cfg.WebhookSecret != "" {
		if !h.verifyStripeSignature(r.Header.Get("Stripe-Signature"), body) {
			log.Printf("Invalid webhook signature")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	} else {
		log.Printf("Warning: Webhook verification disabled - STRIPE_WEBHOOK_SECRET not set")
	}

	// Parse the webhook event
	var event models.StripeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("Error parsing webhook JSON: %v", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	// Only payment_intent.succeeded is handled; everything else is
	// acknowledged and dropped
	intent := event.ProcessPaymentSucceeded()
	if intent == nil {
		log.Printf("Ignoring webhook event type: %s", event.Type)
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	// Create a context with timeout for the license server call
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	log.Printf("Payment succeeded: ID=%s, Amount=%d %s", intent.ID, intent.Amount, intent.Currency)
	if err := h.forwarder.ForwardPayment(ctx, intent); err != nil {
		log.Printf("Error forwarding payment %s: %v", intent.ID, err)
		writeError(w, http.StatusInternalServerError, "error forwarding payment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// verifyStripeSignature validates the Stripe-Signature header: an
// HMAC-SHA256 of "<timestamp>.<body>" with the webhook secret must match one
// of the v1 signatures.
func (h *WebhookHandler) verifyStripeSignature(header string, body []byte) bool {
	if header == "" {
		log.Printf("Missing Stripe-Signature header")
		return false
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		log.Printf("Invalid Stripe-Signature format")
		return false
	}

	// Construct the signed payload: timestamp.body
	message := fmt.Sprintf("%s.%s", timestamp, string(body))

	mac := hmac.New(sha256.New, []byte(h.cfg.WebhookSecret))
	mac.Write([]byte(message))
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(expected), []byte(signature)) {
			return true
		}
	}
	return false
}
