// Package redis provides a Redis/Valkey implementation of the repository interface
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/conflab/roomsvc/internal/config"
	"github.com/conflab/roomsvc/internal/models"
	"github.com/redis/go-redis/v9"
)

// Common errors
var (
	ErrNotFound = errors.New("room not found")
)

// Repository implements the repository interface with Redis storage.
// Participants live in a hash per room; the status list is stored as a single
// JSON array value so append-with-duplicate-check stays one read-modify-write,
// the same consistency level the in-memory store offers.
type Repository struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRepository creates a new Redis repository
func NewRepository(cfg config.RedisConfig) (*Repository, error) {
	var client *redis.Client

	// Use URI if provided, otherwise build connection from individual parameters
	if cfg.URI != "" {
		opt, err := redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URI: %w", err)
		}

		// Use DB from config if not specified in the URI
		if opt.DB == 0 {
			opt.DB = cfg.DB
		}

		// Use password from config if not in URI or if empty in URI
		if opt.Password == "" && cfg.Password != "" {
			opt.Password = cfg.Password
		}

		client = redis.NewClient(opt)
	} else {
		address := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

		client = redis.NewClient(&redis.Options{
			Addr:     address,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Repository{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.RoomTTL,
	}, nil
}

// Close closes the Redis connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// participantsKey returns the Redis key for a room's participants hash
func (r *Repository) participantsKey(roomID string) string {
	return fmt.Sprintf("%srooms:%s:participants", r.keyPrefix, roomID)
}

// statusesKey returns the Redis key for a room's status list
func (r *Repository) statusesKey(roomID string) string {
	return fmt.Sprintf("%srooms:%s:statuses", r.keyPrefix, roomID)
}

// roomIDFromKey recovers the room id from a participants key
func (r *Repository) roomIDFromKey(key string) string {
	id := strings.TrimPrefix(key, r.keyPrefix+"rooms:")
	return strings.TrimSuffix(id, ":participants")
}

// ListRooms returns a map of room id to participant id list
func (r *Repository) ListRooms(ctx context.Context) (map[string][]string, error) {
	pattern := r.participantsKey("*")
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	result := make(map[string][]string, len(keys))
	for _, key := range keys {
		ids, err := r.client.HKeys(ctx, key).Result()
		if err != nil {
			continue
		}
		result[r.roomIDFromKey(key)] = ids
	}
	return result, nil
}

// ListRoomsDetail returns the full nested registry structure
func (r *Repository) ListRoomsDetail(ctx context.Context) (map[string]*models.RoomSettings, error) {
	pattern := r.participantsKey("*")
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	result := make(map[string]*models.RoomSettings, len(keys))
	for _, key := range keys {
		roomID := r.roomIDFromKey(key)
		room, err := r.getRoom(ctx, roomID)
		if err != nil {
			continue
		}
		result[roomID] = room
	}
	return result, nil
}

// GetRoom retrieves a room's settings by id
func (r *Repository) GetRoom(ctx context.Context, roomID string) (*models.RoomSettings, error) {
	exists, err := r.client.Exists(ctx, r.participantsKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check if room exists: %w", err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}
	return r.getRoom(ctx, roomID)
}

// getRoom loads the participants hash and status list for a room
func (r *Repository) getRoom(ctx context.Context, roomID string) (*models.RoomSettings, error) {
	entries, err := r.client.HGetAll(ctx, r.participantsKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	room := models.NewRoomSettings()
	for id, data := range entries {
		var settings models.ParticipantSettings
		if err := json.Unmarshal([]byte(data), &settings); err != nil {
			continue
		}
		room.Participants[id] = &settings
	}

	statuses, err := r.loadStatuses(ctx, roomID)
	if err != nil {
		return nil, err
	}
	room.Status = statuses

	return room, nil
}

// UpsertParticipant shallow-merges the update into the stored settings,
// creating the room hash and the participant entry when absent
func (r *Repository) UpsertParticipant(ctx context.Context, roomID, participantID string, update *models.ParticipantUpdate) error {
	key := r.participantsKey(roomID)

	var settings models.ParticipantSettings
	data, err := r.client.HGet(ctx, key, participantID).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to get participant: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(data, &settings); err != nil {
			return fmt.Errorf("failed to unmarshal participant: %w", err)
		}
	}

	settings.Apply(update)

	merged, err := json.Marshal(&settings)
	if err != nil {
		return fmt.Errorf("failed to marshal participant: %w", err)
	}

	if err := r.client.HSet(ctx, key, participantID, merged).Err(); err != nil {
		return fmt.Errorf("failed to save participant: %w", err)
	}

	// Keep the room's keys alive for the configured TTL
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
			return fmt.Errorf("failed to set expiry on participants: %w", err)
		}
	}

	return nil
}

// RemoveParticipant deletes the participant field; when the hash becomes empty
// the room's keys are deleted and true is returned
func (r *Repository) RemoveParticipant(ctx context.Context, roomID, participantID string) (bool, error) {
	key := r.participantsKey(roomID)

	existed, err := r.client.HExists(ctx, key, participantID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	if !existed {
		return false, nil
	}

	if err := r.client.HDel(ctx, key, participantID).Err(); err != nil {
		return false, fmt.Errorf("failed to remove participant: %w", err)
	}

	remaining, err := r.client.HLen(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count participants: %w", err)
	}
	if remaining > 0 {
		return false, nil
	}

	// Use a pipeline to delete both keys in one operation
	pipe := r.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.Del(ctx, r.statusesKey(roomID))
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to delete room: %w", err)
	}

	return true, nil
}

// ListParticipantNames returns the names of all participants in a room
func (r *Repository) ListParticipantNames(ctx context.Context, roomID string) ([]string, error) {
	entries, err := r.client.HVals(ctx, r.participantsKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, data := range entries {
		var settings models.ParticipantSettings
		if err := json.Unmarshal([]byte(data), &settings); err != nil {
			continue
		}
		names = append(names, settings.Name)
	}
	return names, nil
}

// AppendStatus adds a status tag to a room. A duplicate name returns the
// existing entry unchanged; a room with no participants returns ErrNotFound.
func (r *Repository) AppendStatus(ctx context.Context, roomID string, status models.Status) ([]models.Status, *models.Status, error) {
	exists, err := r.client.Exists(ctx, r.participantsKey(roomID)).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check if room exists: %w", err)
	}
	if exists == 0 {
		return nil, nil, ErrNotFound
	}

	statuses, err := r.loadStatuses(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}

	for i := range statuses {
		if statuses[i].Name == status.Name {
			existing := statuses[i]
			return statuses, &existing, nil
		}
	}

	statuses = append(statuses, status)

	data, err := json.Marshal(statuses)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal statuses: %w", err)
	}
	if err := r.client.Set(ctx, r.statusesKey(roomID), data, r.ttl).Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to save statuses: %w", err)
	}

	return statuses, nil, nil
}

// loadStatuses reads and decodes a room's status list
func (r *Repository) loadStatuses(ctx context.Context, roomID string) ([]models.Status, error) {
	data, err := r.client.Get(ctx, r.statusesKey(roomID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get statuses: %w", err)
	}

	var statuses []models.Status
	if err := json.Unmarshal(data, &statuses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal statuses: %w", err)
	}
	return statuses, nil
}
