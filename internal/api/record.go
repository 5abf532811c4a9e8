package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/conflab/roomsvc/internal/config"
	"github.com/conflab/roomsvc/internal/egress"
	"github.com/conflab/roomsvc/internal/utils"
)

// EgressStarter starts a room composite recording on the egress service
type EgressStarter interface {
	StartRoomComposite(ctx context.Context, cfg config.MediaConfig, roomName, layout string, audioOnly bool) (*egress.StartResponse, error)
}

// RecordHandler starts room recordings against the external egress service
type RecordHandler struct {
	cfg    config.MediaConfig
	client EgressStarter
}

// NewRecordHandler creates a record handler from environment configuration
func NewRecordHandler() *RecordHandler {
	cfg := config.GetMediaConfig()
	return NewRecordHandlerWithClient(cfg, egress.NewClient(cfg))
}

// NewRecordHandlerWithClient creates a record handler with an explicit egress
// client; primarily used by tests
func NewRecordHandlerWithClient(cfg config.MediaConfig, client EgressStarter) *RecordHandler {
	return &RecordHandler{cfg: cfg, client: client}
}

// recordRequest is the body of POST /api/room/record
type recordRequest struct {
	RoomName  string `json:"roomName"`
	Layout    string `json:"layout,omitempty"`
	AudioOnly bool   `json:"audioOnly,omitempty"`
}

// ServeHTTP handles POST /api/room/record
func (h *RecordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding record request: %v", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	if req.RoomName == "" {
		writeError(w, http.StatusBadRequest, "roomName is required")
		return
	}

	if !h.cfg.IsEgressConfigValid() {
		log.Printf("Recording requested but egress is not configured")
		writeError(w, http.StatusInternalServerError, "recording is not configured")
		return
	}

	started, err := h.client.StartRoomComposite(r.Context(), h.cfg, req.RoomName, req.Layout, req.AudioOnly)
	if err != nil {
		log.Printf("Error starting recording for room %s: %v", utils.SanitizeLogString(req.RoomName), err)
		writeError(w, http.StatusInternalServerError, "error starting recording")
		return
	}

	log.Printf("Recording started: room=%s egress=%s", utils.SanitizeLogString(req.RoomName), started.EgressID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"egressId": started.EgressID,
		"status":   started.Status,
	})
}
