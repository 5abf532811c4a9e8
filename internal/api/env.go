package api

import (
	"net/http"

	"github.com/conflab/roomsvc/internal/config"
)

// EnvHandler serves the default media-quality hints configured through the
// environment; nothing here is persisted
type EnvHandler struct {
	cfg config.MediaConfig
}

// NewEnvHandler creates an env handler reading the process environment
func NewEnvHandler() *EnvHandler {
	return &EnvHandler{cfg: config.GetMediaConfig()}
}

// ServeHTTP handles GET /api/env
func (h *EnvHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"resolution":     h.cfg.Resolution,
		"frameRate":      h.cfg.FrameRate,
		"maxBitrate":     h.cfg.MaxBitrate,
		"audioBitrate":   h.cfg.AudioBitrate,
		"adaptiveStream": h.cfg.AdaptiveStream,
		"dynacast":       h.cfg.Dynacast,
	})
}
