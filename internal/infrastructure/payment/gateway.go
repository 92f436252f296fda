// Package payment integrates the external card-charging gateway. Amounts are
// minor currency units end to end.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Config struct {
	GatewayURL    string
	APIKey        string
	WebhookSecret string
}

type Gateway struct {
	config     Config
	httpClient *http.Client
}

func NewGateway(config Config) *Gateway {
	return &Gateway{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Charge outcome statuses reported by the gateway.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

type ChargeRequest struct {
	Reference string `json:"reference"`
	Amount    uint64 `json:"amount"`
	Currency  string `json:"currency"`
	UserSID   string `json:"user_sid"`
}

type ChargeResult struct {
	ProviderRef string `json:"provider_ref"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

// Charge submits a charge synchronously. A zero amount succeeds locally
// without touching the gateway (fully discounted purchases).
func (g *Gateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if req.Amount == 0 {
		return &ChargeResult{ProviderRef: "free-" + req.Reference, Status: StatusSucceeded}, nil
	}
	if g.config.GatewayURL == "" {
		return nil, fmt.Errorf("payment gateway is not configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.config.GatewayURL+"/v1/charges", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to submit charge: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read charge response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("charge failed with status %d: %s", resp.StatusCode, body)
	}

	var result ChargeResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode charge response: %w", err)
	}
	return &result, nil
}

// VerifyWebhookSignature checks the HMAC-SHA256 signature the gateway sends
// with each webhook delivery.
func (g *Gateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.config.WebhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
