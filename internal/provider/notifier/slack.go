package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Slack posts incident alerts to an incoming webhook.
type Slack struct {
	webhookURL string
	channel    string
	client     *http.Client
}

// Option configures a Slack notifier.
type Option func(*Slack)

// WithChannel overrides the webhook's default channel.
func WithChannel(channel string) Option {
	return func(s *Slack) { s.channel = channel }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Slack) { s.client = c }
}

// New returns a Slack notifier for the given webhook URL.
func New(webhookURL string, opts ...Option) *Slack {
	s := &Slack{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type webhookPayload struct {
	Text    string `json:"text"`
	Channel string `json:"channel,omitempty"`
}

// Notify sends message to the configured webhook.
func (s *Slack) Notify(ctx context.Context, message string) error {
	payload, err := json.Marshal(webhookPayload{Text: message, Channel: s.channel})
	if err != nil {
		return fmt.Errorf("slack: marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("slack: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack: sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("slack: reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack: unexpected status %d: %s", resp.StatusCode, body)
	}
	if string(body) != "ok" {
		return fmt.Errorf("slack: unexpected response body: %s", body)
	}
	return nil
}
