// Package web provides the server-sent event stream pushing registry updates
// to the UI shell
package web

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/conflab/roomsvc/internal/utils"
	"github.com/r3labs/sse/v2"
)

// StreamRooms is the event stream carrying room registry updates
const StreamRooms = "rooms"

// roomUpdateEvent is the payload of a room-update event
type roomUpdateEvent struct {
	RoomID    string `json:"roomId"`
	Timestamp int64  `json:"ts"` // Unix timestamp in milliseconds
}

// EventManager fans registry updates out to connected SSE clients. It replaces
// the in-process pub/sub bus the UI shell used for the same purpose.
type EventManager struct {
	server *sse.Server
}

// NewEventManager creates the SSE server with the rooms stream registered
func NewEventManager() *EventManager {
	server := sse.New()
	server.AutoReplay = false
	server.CreateStream(StreamRooms)

	return &EventManager{server: server}
}

// NotifyRoomUpdate publishes a room-update event; registered with the room
// service as an update callback
func (m *EventManager) NotifyRoomUpdate(roomID string) {
	data, err := json.Marshal(roomUpdateEvent{
		RoomID:    roomID,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("Error marshaling room update event: %v", err)
		return
	}

	m.server.Publish(StreamRooms, &sse.Event{
		Event: []byte("room-update"),
		Data:  data,
	})
}

// ServeHTTP implements the http.Handler interface for SSE connections,
// defaulting to the rooms stream when no stream is requested
func (m *EventManager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("stream") == "" {
		q.Set("stream", StreamRooms)
		r.URL.RawQuery = q.Encode()
	}

	log.Printf("SSE client connected from %s", utils.SanitizeLogString(r.RemoteAddr))
	m.server.ServeHTTP(w, r)
}

// Shutdown closes all client connections
func (m *EventManager) Shutdown() {
	m.server.Close()
}
