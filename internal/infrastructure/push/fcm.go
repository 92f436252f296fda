// Package push sends device notifications through the FCM HTTP API.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Config struct {
	Endpoint    string
	AccessToken string
}

type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(config Config) *Client {
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Message is one push payload for one device token.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Result reports the delivery outcome per token. Invalid tokens are flagged
// so callers can prune dead registrations.
type Result struct {
	Token        string
	Delivered    bool
	TokenInvalid bool
	Err          error
}

type fcmRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Token        string            `json:"token"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send pushes to every token and returns one result per token. A failing
// token never aborts delivery to the remaining ones.
func (c *Client) Send(ctx context.Context, messages []Message) []Result {
	results := make([]Result, 0, len(messages))
	for _, msg := range messages {
		results = append(results, c.sendOne(ctx, msg))
	}
	return results
}

func (c *Client) sendOne(ctx context.Context, msg Message) Result {
	result := Result{Token: msg.Token}

	payload, err := json.Marshal(fcmRequest{Message: fcmMessage{
		Token:        msg.Token,
		Notification: fcmNotification{Title: msg.Title, Body: msg.Body},
		Data:         msg.Data,
	}})
	if err != nil {
		result.Err = fmt.Errorf("failed to marshal push payload: %w", err)
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		result.Err = fmt.Errorf("failed to create push request: %w", err)
		return result
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Err = fmt.Errorf("failed to send push: %w", err)
		return result
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		result.Delivered = true
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		// FCM reports dead or malformed registrations this way.
		result.TokenInvalid = true
		result.Err = fmt.Errorf("push token rejected with status %d", resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		result.Err = fmt.Errorf("push failed with status %d: %s", resp.StatusCode, body)
	}
	return result
}
