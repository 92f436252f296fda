// Package sms delivers one-time codes through a generic HTTP SMS gateway.
package sms

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
	APIURL string
	APIKey string
	Sender string
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

type sendRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

// SendVerificationCode delivers the OTP to a phone number in E.164 form.
func (c *Client) SendVerificationCode(ctx context.Context, phone, code string) error {
	return c.send(ctx, phone, fmt.Sprintf("Your Calmora verification code is %s", code))
}

func (c *Client) send(ctx context.Context, phone, message string) error {
	if c.config.APIURL == "" {
		return fmt.Errorf("sms gateway is not configured")
	}

	payload, err := json.Marshal(sendRequest{To: phone, From: c.config.Sender, Message: message})
	if err != nil {
		return fmt.Errorf("failed to marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms gateway returned status %d: %s", resp.StatusCode, body)
	}
	return nil
}
