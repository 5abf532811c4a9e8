// Package repository defines interfaces for room settings storage
package repository

import (
	"context"

	"github.com/conflab/roomsvc/internal/models"
)

// Repository defines the interface for storing and retrieving room settings.
//
// Reads of unknown rooms are lenient by contract: GetRoom returns the
// implementation's not-found error and callers translate it to an empty
// structure. AppendStatus reports a duplicate by returning the existing
// status rather than an error.
type Repository interface {
	// Room operations
	ListRooms(ctx context.Context) (map[string][]string, error)
	ListRoomsDetail(ctx context.Context) (map[string]*models.RoomSettings, error)
	GetRoom(ctx context.Context, roomID string) (*models.RoomSettings, error)

	// Participant operations
	UpsertParticipant(ctx context.Context, roomID, participantID string, update *models.ParticipantUpdate) error
	// RemoveParticipant deletes the participant and reports whether the room
	// itself was cleared because its last participant left. Removing an
	// unknown participant is not an error.
	RemoveParticipant(ctx context.Context, roomID, participantID string) (bool, error)
	ListParticipantNames(ctx context.Context, roomID string) ([]string, error)

	// AppendStatus adds a room-scoped status tag. It returns the room's status
	// list after the call and, when a status with the same name already
	// exists, the existing entry instead of appending a duplicate. A room that
	// has never seen a participant upsert yields a not-found error.
	AppendStatus(ctx context.Context, roomID string, status models.Status) ([]models.Status, *models.Status, error)
}
