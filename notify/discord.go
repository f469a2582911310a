// Package notify publishes a message for every rendered part.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"storyreel/types"
)

// Discord posts messages to a channel webhook
type Discord struct {
	webhookURL string
	httpClient *http.Client
}

// NewDiscord creates a webhook notifier
func NewDiscord(webhookURL string) *Discord {
	return &Discord{webhookURL: webhookURL, httpClient: &http.Client{Timeout: 15 * time.Second}}
}

// Send posts "title,url" as the message content
func (d *Discord) Send(ctx context.Context, msg types.Message) error {
	if d.webhookURL == "" {
		return errors.New("discord: webhook URL is not configured")
	}
	payload, err := json.Marshal(map[string]string{"content": msg.Title + "," + msg.URL})
	if err != nil {
		return fmt.Errorf("discord: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("discord: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discord: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("discord: webhook returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
