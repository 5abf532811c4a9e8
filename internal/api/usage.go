package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/conflab/roomsvc/internal/usage"
)

// UsageHandler computes presence reports from fetched interval records
type UsageHandler struct{}

// NewUsageHandler creates a new usage handler
func NewUsageHandler() *UsageHandler {
	return &UsageHandler{}
}

// usageRequest is the body of POST /api/room-usage. Now is an optional epoch
// millisecond reference; when omitted the server's current time is used.
type usageRequest struct {
	Rooms map[string]usage.RoomActivity `json:"rooms"`
	Now   *int64                        `json:"now,omitempty"`
}

// ServeHTTP handles POST /api/room-usage
func (h *UsageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req usageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding usage request: %v", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	if len(req.Rooms) == 0 {
		writeError(w, http.StatusBadRequest, "rooms is required")
		return
	}

	now := time.Now()
	if req.Now != nil {
		now = time.UnixMilli(*req.Now)
	}

	writeJSON(w, http.StatusOK, usage.Aggregate(req.Rooms, now))
}
