// Package repository provides the initialization for repository implementations
package repository

import (
	"errors"

	"github.com/conflab/roomsvc/internal/config"
	"github.com/conflab/roomsvc/internal/repository/memory"
	"github.com/conflab/roomsvc/internal/repository/redis"
)

// NewRepository creates the repository implementation selected by configuration.
// Redis is used when enabled, otherwise the in-memory store (state is lost on
// process restart in that case).
func NewRepository(cfg config.RedisConfig) (Repository, error) {
	if cfg.Enabled {
		return redis.NewRepository(cfg)
	}
	return memory.NewRepository(), nil
}

// IsNotFound reports whether the error is a not-found error from either
// repository implementation
func IsNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, redis.ErrNotFound)
}
