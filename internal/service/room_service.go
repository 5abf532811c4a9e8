package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"

	"github.com/conflab/roomsvc/internal/models"
	"github.com/conflab/roomsvc/internal/repository"
	"github.com/conflab/roomsvc/internal/utils"
)

// RoomUpdateCallback is a function type for registry update callbacks
type RoomUpdateCallback func(roomID string)

// guestNamePattern matches the auto-assigned guest names ("User 01", "User 12")
var guestNamePattern = regexp.MustCompile(`^User (\d\d+)$`)

// RoomService provides business logic on top of the room settings registry
type RoomService struct {
	repo            repository.Repository
	updateCallbacks []RoomUpdateCallback
}

// NewRoomService creates a new RoomService with the given repository
func NewRoomService(repo repository.Repository) *RoomService {
	return &RoomService{
		repo:            repo,
		updateCallbacks: make([]RoomUpdateCallback, 0),
	}
}

// RegisterUpdateCallback registers a callback to be called when a room's
// registry entry changes
func (s *RoomService) RegisterUpdateCallback(callback RoomUpdateCallback) {
	s.updateCallbacks = append(s.updateCallbacks, callback)
}

// notifyUpdate calls all registered callbacks with the changed room id
func (s *RoomService) notifyUpdate(roomID string) {
	for _, callback := range s.updateCallbacks {
		callback(roomID)
	}
}

// ListRooms returns a map of room id to participant id list
func (s *RoomService) ListRooms(ctx context.Context) (map[string][]string, error) {
	return s.repo.ListRooms(ctx)
}

// ListRoomsDetail returns the full nested registry structure
func (s *RoomService) ListRoomsDetail(ctx context.Context) (map[string]*models.RoomSettings, error) {
	return s.repo.ListRoomsDetail(ctx)
}

// GetRoom returns the settings for a room. Reads of unknown rooms are lenient
// and return an empty participants object, never an error.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) *models.RoomSettings {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return models.NewRoomSettings()
	}
	return room
}

// UpsertParticipant merges the update into the participant's settings and
// notifies listeners
func (s *RoomService) UpsertParticipant(ctx context.Context, roomID, participantID string, update *models.ParticipantUpdate) error {
	if err := s.repo.UpsertParticipant(ctx, roomID, participantID, update); err != nil {
		return err
	}
	s.notifyUpdate(roomID)
	return nil
}

// RemoveParticipant deletes the participant and reports whether the room was
// cleared as a whole
func (s *RoomService) RemoveParticipant(ctx context.Context, roomID, participantID string) (bool, error) {
	cleared, err := s.repo.RemoveParticipant(ctx, roomID, participantID)
	if err != nil {
		return false, err
	}
	if cleared {
		log.Printf("Room cleared: %s", utils.SanitizeLogString(roomID))
	}
	s.notifyUpdate(roomID)
	return cleared, nil
}

// AppendStatus adds a status tag to a room and notifies listeners. When a
// status with the same name exists, the existing entry is returned instead.
func (s *RoomService) AppendStatus(ctx context.Context, roomID string, status models.Status) ([]models.Status, *models.Status, error) {
	statuses, existing, err := s.repo.AppendStatus(ctx, roomID, status)
	if err != nil {
		return nil, nil, err
	}
	if existing == nil {
		s.notifyUpdate(roomID)
	}
	return statuses, existing, nil
}

// GuestName suggests the next free auto-assigned guest name for a room. It
// scans existing names of the form "User NN" and returns the two-digit-padded
// successor of the highest suffix, or "User 01" when no numbered guests exist.
func (s *RoomService) GuestName(ctx context.Context, roomID string) (string, error) {
	names, err := s.repo.ListParticipantNames(ctx, roomID)
	if err != nil {
		return "", err
	}

	max := 0
	for _, name := range names {
		m := guestNamePattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}

	return fmt.Sprintf("User %02d", max+1), nil
}
