package api

import (
	"net/http"

	"github.com/conflab/roomsvc/internal/config"
	"github.com/conflab/roomsvc/internal/license"
)

// SetupRoutes configures the HTTP routes for the API
func SetupRoutes(roomService RoomServicer, events http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoints for Kubernetes
	mux.HandleFunc("/health/live", HealthLiveHandler)
	mux.HandleFunc("/health/ready", HealthReadyHandler)

	auth := NewAuthMiddleware()

	// Room settings registry
	mux.Handle("/api/room-settings", NewRoomSettingsHandler(roomService))

	// Usage analytics
	mux.Handle("/api/room-usage", NewUsageHandler())

	// Media defaults
	mux.Handle("/api/env", NewEnvHandler())

	// Upload store and file re-serving
	mux.Handle("/api/upload", NewUploadHandler(auth))
	mux.Handle("/api/files/", NewFilesHandler())

	// Stripe payment webhook
	stripeCfg := config.GetStripeConfig()
	mux.Handle("/api/webhook", NewWebhookHandlerWithConfig(stripeCfg, license.NewClient(stripeCfg.LicenseServerURL)))

	// Recording egress
	recordHandler := NewRecordHandler()
	mux.Handle("/api/room/record", auth.RequireAuth(recordHandler.ServeHTTP))

	// Registry update event stream
	if events != nil {
		mux.Handle("/events", events)
	}

	return mux
}
