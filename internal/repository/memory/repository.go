// Package memory provides an in-memory implementation of the repository interface
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/conflab/roomsvc/internal/models"
)

// ErrNotFound is returned when a requested room is not found
var ErrNotFound = errors.New("room not found")

// Repository implements the repository interface with in-memory storage.
// The registry is a shared mutable structure, so every operation takes the
// lock; there is still no cross-request transaction.
type Repository struct {
	rooms map[string]*models.RoomSettings
	mu    sync.RWMutex
}

// NewRepository creates a new in-memory repository
func NewRepository() *Repository {
	return &Repository{
		rooms: make(map[string]*models.RoomSettings),
	}
}

// ListRooms returns a map of room id to participant id list
func (r *Repository) ListRooms(ctx context.Context) (map[string][]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string][]string, len(r.rooms))
	for id, room := range r.rooms {
		result[id] = room.ParticipantIDs()
	}
	return result, nil
}

// ListRoomsDetail returns the full nested registry structure
func (r *Repository) ListRoomsDetail(ctx context.Context) (map[string]*models.RoomSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*models.RoomSettings, len(r.rooms))
	for id, room := range r.rooms {
		result[id] = copyRoom(room)
	}
	return result, nil
}

// GetRoom retrieves a room's settings by id
func (r *Repository) GetRoom(ctx context.Context, roomID string) (*models.RoomSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRoom(room), nil
}

// UpsertParticipant shallow-merges the update into the participant's settings,
// creating the room and the participant entry when absent
func (r *Repository) UpsertParticipant(ctx context.Context, roomID, participantID string, update *models.ParticipantUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = models.NewRoomSettings()
		r.rooms[roomID] = room
	}

	settings, ok := room.Participants[participantID]
	if !ok {
		settings = &models.ParticipantSettings{}
		room.Participants[participantID] = settings
	}

	settings.Apply(update)
	return nil
}

// RemoveParticipant deletes the participant entry; when this was the room's
// last entry the room is deleted eagerly and true is returned
func (r *Repository) RemoveParticipant(ctx context.Context, roomID, participantID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return false, nil
	}

	delete(room.Participants, participantID)

	if len(room.Participants) == 0 {
		delete(r.rooms, roomID)
		return true, nil
	}
	return false, nil
}

// ListParticipantNames returns the names of all participants in a room
func (r *Repository) ListParticipantNames(ctx context.Context, roomID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, nil
	}

	names := make([]string, 0, len(room.Participants))
	for _, p := range room.Participants {
		names = append(names, p.Name)
	}
	return names, nil
}

// AppendStatus adds a status tag to a room. A duplicate name returns the
// existing entry unchanged; an unknown room returns ErrNotFound.
func (r *Repository) AppendStatus(ctx context.Context, roomID string, status models.Status) ([]models.Status, *models.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, nil, ErrNotFound
	}

	for i := range room.Status {
		if room.Status[i].Name == status.Name {
			existing := room.Status[i]
			return append([]models.Status(nil), room.Status...), &existing, nil
		}
	}

	room.Status = append(room.Status, status)
	return append([]models.Status(nil), room.Status...), nil, nil
}

// copyRoom returns a deep copy so callers never alias the registry's maps
func copyRoom(room *models.RoomSettings) *models.RoomSettings {
	out := &models.RoomSettings{
		Participants: make(map[string]*models.ParticipantSettings, len(room.Participants)),
		Status:       append([]models.Status(nil), room.Status...),
	}
	for id, p := range room.Participants {
		settings := *p
		out.Participants[id] = &settings
	}
	return out
}
