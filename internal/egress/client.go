// Package egress provides the client for the external recording egress service
package egress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/conflab/roomsvc/internal/config"
	"github.com/google/uuid"
)

// S3Output describes the S3-compatible destination of a recording
type S3Output struct {
	Bucket    string `json:"bucket"`
	Region    string `json:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"`
	AccessKey string `json:"access_key"`
	Secret    string `json:"secret"`
}

// StartRequest describes a room composite recording to start
type StartRequest struct {
	RequestID string   `json:"request_id"`
	RoomName  string   `json:"room_name"`
	Layout    string   `json:"layout,omitempty"`
	AudioOnly bool     `json:"audio_only,omitempty"`
	Filepath  string   `json:"filepath"`
	S3        S3Output `json:"s3"`
}

// StartResponse is the egress service's acknowledgment
type StartResponse struct {
	EgressID string `json:"egress_id"`
	Status   string `json:"status"`
}

// Client handles interactions with the egress service
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
}

// NewClient creates an egress client from configuration
func NewClient(cfg config.MediaConfig) *Client {
	return &Client{
		baseURL:   cfg.EgressURL,
		apiKey:    cfg.EgressAPIKey,
		apiSecret: cfg.EgressSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// StartRoomComposite starts a composite audio/video recording of a room,
// writing to the configured S3-compatible storage. Failures surface directly
// to the caller; there are no retries.
func (c *Client) StartRoomComposite(ctx context.Context, cfg config.MediaConfig, roomName, layout string, audioOnly bool) (*StartResponse, error) {
	requestID := uuid.NewString()
	req := StartRequest{
		RequestID: requestID,
		RoomName:  roomName,
		Layout:    layout,
		AudioOnly: audioOnly,
		Filepath:  fmt.Sprintf("recordings/%s/%s.mp4", roomName, requestID),
		S3: S3Output{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			Secret:    cfg.S3Secret,
		},
	}

	body, err := json.Marshal(&req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal egress request: %w", err)
	}

	url := fmt.Sprintf("%s/egress/room-composite", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.SetBasicAuth(c.apiKey, c.apiSecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("egress error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var started StartResponse
	if err := json.Unmarshal(respBody, &started); err != nil {
		return nil, fmt.Errorf("failed to parse egress response: %w", err)
	}

	return &started, nil
}
