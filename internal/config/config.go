// Package config provides configuration management for the application
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// RedisConfig holds Redis/Valkey configuration
type RedisConfig struct {
	Enabled bool
	// URI is prioritized if provided, otherwise individual connection parameters are used
	URI       string
	Host      string
	Port      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
	// TTL for room settings (0 means no expiration)
	RoomTTL time.Duration
}

// UploadConfig holds settings for the file upload endpoint
type UploadConfig struct {
	Dir     string
	MaxSize int64 // bytes
}

// MediaConfig holds default media-quality hints served to clients and the
// connection details for the recording egress service
type MediaConfig struct {
	Resolution     string
	FrameRate      int
	MaxBitrate     int
	AudioBitrate   int
	AdaptiveStream bool
	Dynacast       bool

	EgressURL    string
	EgressAPIKey string
	EgressSecret string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3Secret    string
}

// StripeConfig holds payment webhook configuration
type StripeConfig struct {
	WebhookEnabled   bool
	WebhookSecret    string
	LicenseServerURL string
}

// AdminConfig holds credentials guarding destructive endpoints
type AdminConfig struct {
	// APITokens is the list of accepted bearer tokens; empty disables admin access
	APITokens []string
}

// GetRedisConfig loads Redis/Valkey configuration from environment variables
func GetRedisConfig() RedisConfig {
	// Parse TTL from environment variable (in hours)
	ttlHours, _ := strconv.Atoi(getEnv("REDIS_ROOM_TTL_HOURS", "24"))
	ttl := time.Duration(ttlHours) * time.Hour

	// Parse DB index
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return RedisConfig{
		Enabled:   getEnvBool("REDIS_ENABLED", false),
		URI:       getEnv("REDIS_URI", ""),
		Host:      getEnv("REDIS_HOST", "localhost"),
		Port:      getEnv("REDIS_PORT", "6379"),
		Username:  getEnv("REDIS_USERNAME", ""),
		Password:  getEnv("REDIS_PASSWORD", ""),
		DB:        db,
		KeyPrefix: getEnv("REDIS_KEY_PREFIX", "roomsvc:"),
		RoomTTL:   ttl,
	}
}

// GetUploadConfig loads upload configuration from environment variables
func GetUploadConfig() UploadConfig {
	return UploadConfig{
		Dir:     getEnv("UPLOAD_DIR", "./uploads"),
		MaxSize: getEnvInt64("UPLOAD_MAX_SIZE", 100*1024*1024), // 100MB
	}
}

// GetMediaConfig loads media defaults and egress configuration from environment variables
func GetMediaConfig() MediaConfig {
	return MediaConfig{
		Resolution:     getEnv("MEDIA_DEFAULT_RESOLUTION", "720p"),
		FrameRate:      getEnvInt("MEDIA_DEFAULT_FRAMERATE", 30),
		MaxBitrate:     getEnvInt("MEDIA_MAX_BITRATE", 1700000),
		AudioBitrate:   getEnvInt("MEDIA_AUDIO_BITRATE", 64000),
		AdaptiveStream: getEnvBool("MEDIA_ADAPTIVE_STREAM", true),
		Dynacast:       getEnvBool("MEDIA_DYNACAST", true),

		EgressURL:    getEnv("EGRESS_URL", ""),
		EgressAPIKey: getEnv("EGRESS_API_KEY", ""),
		EgressSecret: getEnv("EGRESS_API_SECRET", ""),

		S3Bucket:    getEnv("RECORDING_S3_BUCKET", ""),
		S3Region:    getEnv("RECORDING_S3_REGION", ""),
		S3Endpoint:  getEnv("RECORDING_S3_ENDPOINT", ""),
		S3AccessKey: getEnv("RECORDING_S3_ACCESS_KEY", ""),
		S3Secret:    getEnv("RECORDING_S3_SECRET_KEY", ""),
	}
}

// GetStripeConfig loads payment webhook configuration from environment variables
func GetStripeConfig() StripeConfig {
	return StripeConfig{
		WebhookEnabled:   getEnvBool("STRIPE_WEBHOOK_ENABLED", false),
		WebhookSecret:    getEnv("STRIPE_WEBHOOK_SECRET", ""),
		LicenseServerURL: getEnv("LICENSE_SERVER_URL", ""),
	}
}

// GetAdminConfig loads admin credentials from environment variables
func GetAdminConfig() AdminConfig {
	var tokens []string
	for _, token := range strings.Split(getEnv("ADMIN_API_TOKENS", ""), ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return AdminConfig{APITokens: tokens}
}

// IsEgressConfigValid checks if all required egress configuration is present
func (c MediaConfig) IsEgressConfigValid() bool {
	return c.EgressURL != "" && c.EgressAPIKey != "" && c.EgressSecret != ""
}

// IsStripeConfigValid checks if the webhook can actually be processed
func (c StripeConfig) IsStripeConfigValid() bool {
	return c.WebhookSecret != "" && c.LicenseServerURL != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool retrieves a boolean environment variable
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvInt retrieves an integer environment variable
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}

// getEnvInt64 retrieves a 64-bit integer environment variable
func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return i
}
