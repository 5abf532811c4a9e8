package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/conflab/roomsvc/internal/models"
	"github.com/conflab/roomsvc/internal/repository"
	"github.com/conflab/roomsvc/internal/utils"
)

// RoomSettingsHandler handles HTTP requests for the room settings registry
type RoomSettingsHandler struct {
	roomService RoomServicer
}

// NewRoomSettingsHandler creates a new room settings handler
func NewRoomSettingsHandler(roomService RoomServicer) *RoomSettingsHandler {
	return &RoomSettingsHandler{
		roomService: roomService,
	}
}

// upsertRequest is the body of POST /api/room-settings
type upsertRequest struct {
	RoomID        string                    `json:"roomId"`
	ParticipantID string                    `json:"participantId"`
	Settings      *models.ParticipantUpdate `json:"settings"`
}

// statusRequest is the body of PUT /api/room-settings
type statusRequest struct {
	RoomID string         `json:"roomId"`
	Status *models.Status `json:"status"`
}

// ServeHTTP handles HTTP requests for the registry endpoint
func (h *RoomSettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.read(w, r)
	case http.MethodPost:
		h.upsert(w, r)
	case http.MethodPut:
		h.appendStatus(w, r)
	case http.MethodDelete:
		h.remove(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// read handles the GET variants: full listing, guest name suggestion and
// single-room reads
func (h *RoomSettingsHandler) read(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if all, _ := strconv.ParseBool(query.Get("all")); all {
		detail, _ := strconv.ParseBool(query.Get("detail"))
		if detail {
			rooms, err := h.roomService.ListRoomsDetail(r.Context())
			if err != nil {
				log.Printf("Error listing rooms: %v", err)
				writeError(w, http.StatusInternalServerError, "error listing rooms")
				return
			}
			writeJSON(w, http.StatusOK, rooms)
			return
		}

		rooms, err := h.roomService.ListRooms(r.Context())
		if err != nil {
			log.Printf("Error listing rooms: %v", err)
			writeError(w, http.StatusInternalServerError, "error listing rooms")
			return
		}
		writeJSON(w, http.StatusOK, rooms)
		return
	}

	roomID := query.Get("roomId")
	if roomID == "" {
		writeError(w, http.StatusBadRequest, "roomId is required")
		return
	}

	if pre, _ := strconv.ParseBool(query.Get("pre")); pre {
		name, err := h.roomService.GuestName(r.Context(), roomID)
		if err != nil {
			log.Printf("Error suggesting guest name for %s: %v", utils.SanitizeLogString(roomID), err)
			writeError(w, http.StatusInternalServerError, "error suggesting name")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"name": name})
		return
	}

	// Unknown rooms read as an empty participants object, never as an error
	room := h.roomService.GetRoom(r.Context(), roomID)
	writeJSON(w, http.StatusOK, map[string]*models.RoomSettings{"settings": room})
}

// upsert handles POST: partial-merge of participant settings
func (h *RoomSettingsHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding upsert request: %v", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	if req.RoomID == "" || req.ParticipantID == "" {
		writeError(w, http.StatusBadRequest, "roomId and participantId are required")
		return
	}
	if req.Settings == nil {
		writeError(w, http.StatusBadRequest, "settings is required")
		return
	}

	if err := h.roomService.UpsertParticipant(r.Context(), req.RoomID, req.ParticipantID, req.Settings); err != nil {
		log.Printf("Error upserting participant: %v", err)
		writeError(w, http.StatusInternalServerError, "error saving settings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// appendStatus handles PUT: adding a room-scoped status tag
func (h *RoomSettingsHandler) appendStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding status request: %v", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	if req.RoomID == "" || req.Status == nil || req.Status.Name == "" {
		writeError(w, http.StatusBadRequest, "roomId and status are required")
		return
	}

	statuses, existing, err := h.roomService.AppendStatus(r.Context(), req.RoomID, *req.Status)
	if err != nil {
		if repository.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		log.Printf("Error appending status: %v", err)
		writeError(w, http.StatusInternalServerError, "error saving status")
		return
	}

	if existing != nil {
		// Soft duplicate: the first status is returned unchanged
		writeJSON(w, http.StatusOK, map[string]any{
			"error":  "status already exists",
			"status": existing,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  statuses,
		"roomId":  req.RoomID,
	})
}

// remove handles DELETE: dropping a participant and, when it was the last one,
// the room as a whole
func (h *RoomSettingsHandler) remove(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	roomID := query.Get("roomId")
	participantID := query.Get("participantId")

	if roomID == "" || participantID == "" {
		writeError(w, http.StatusBadRequest, "roomId and participantId are required")
		return
	}

	cleared, err := h.roomService.RemoveParticipant(r.Context(), roomID, participantID)
	if err != nil {
		log.Printf("Error removing participant: %v", err)
		writeError(w, http.StatusInternalServerError, "error removing participant")
		return
	}

	response := map[string]any{"success": true}
	if cleared {
		response["clearRoom"] = roomID
	}
	writeJSON(w, http.StatusOK, response)
}
