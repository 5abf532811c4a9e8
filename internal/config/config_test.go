package config_test

import (
	"testing"
	"time"

	"github.com/conflab/roomsvc/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestRedisConfigDefaults(t *testing.T) {
	cfg := config.GetRedisConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "6379", cfg.Port)
	assert.Equal(t, "roomsvc:", cfg.KeyPrefix)
	assert.Equal(t, 24*time.Hour, cfg.RoomTTL)
}

func TestRedisConfigFromEnv(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_ROOM_TTL_HOURS", "48")

	cfg := config.GetRedisConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "redis.internal", cfg.Host)
	assert.Equal(t, 48*time.Hour, cfg.RoomTTL)
}

func TestUploadConfigDefaults(t *testing.T) {
	cfg := config.GetUploadConfig()

	assert.Equal(t, "./uploads", cfg.Dir)
	assert.Equal(t, int64(100*1024*1024), cfg.MaxSize)
}

func TestMediaConfigDefaults(t *testing.T) {
	cfg := config.GetMediaConfig()

	assert.Equal(t, "720p", cfg.Resolution)
	assert.Equal(t, 30, cfg.FrameRate)
	assert.True(t, cfg.AdaptiveStream)
	assert.False(t, cfg.IsEgressConfigValid(), "egress requires explicit configuration")
}

func TestEgressConfigValid(t *testing.T) {
	t.Setenv("EGRESS_URL", "http://egress:9090")
	t.Setenv("EGRESS_API_KEY", "key")
	t.Setenv("EGRESS_API_SECRET", "secret")

	cfg := config.GetMediaConfig()
	assert.True(t, cfg.IsEgressConfigValid())
}

func TestStripeConfig(t *testing.T) {
	cfg := config.GetStripeConfig()
	assert.False(t, cfg.WebhookEnabled)
	assert.False(t, cfg.IsStripeConfigValid())

	t.Setenv("STRIPE_WEBHOOK_ENABLED", "true")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("LICENSE_SERVER_URL", "https://license.example.com")

	cfg = config.GetStripeConfig()
	assert.True(t, cfg.WebhookEnabled)
	assert.True(t, cfg.IsStripeConfigValid())
}

func TestAdminConfigTokenList(t *testing.T) {
	t.Setenv("ADMIN_API_TOKENS", "alpha, beta ,,gamma")

	cfg := config.GetAdminConfig()
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, cfg.APITokens)
}
