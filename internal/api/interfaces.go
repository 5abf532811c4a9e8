package api

import (
	"context"

	"github.com/conflab/roomsvc/internal/models"
)

// RoomServicer defines the interface for room service operations needed by API handlers
type RoomServicer interface {
	ListRooms(ctx context.Context) (map[string][]string, error)
	ListRoomsDetail(ctx context.Context) (map[string]*models.RoomSettings, error)
	GetRoom(ctx context.Context, roomID string) *models.RoomSettings

	UpsertParticipant(ctx context.Context, roomID, participantID string, update *models.ParticipantUpdate) error
	RemoveParticipant(ctx context.Context, roomID, participantID string) (bool, error)

	AppendStatus(ctx context.Context, roomID string, status models.Status) ([]models.Status, *models.Status, error)
	GuestName(ctx context.Context, roomID string) (string, error)
}
