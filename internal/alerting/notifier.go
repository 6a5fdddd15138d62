package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Notifier delivers a plain text message to a webhook endpoint. Delivery
// is single-shot: success or failure, no retry, no delivery guarantee.
type Notifier interface {
	Notify(ctx context.Context, endpoint, text string) error
}

// WebhookNotifier posts to Slack- or Discord-compatible incoming webhooks.
type WebhookNotifier struct {
	client *http.Client
	logger zerolog.Logger
}

// NewWebhookNotifier constructs a webhook notifier.
func NewWebhookNotifier(timeout time.Duration, logger zerolog.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "alert_webhook").Logger(),
	}
}

// Notify posts text to endpoint, shaping the payload for the platform the
// endpoint's host identifies.
func (n *WebhookNotifier) Notify(ctx context.Context, endpoint, text string) error {
	if endpoint == "" || text == "" {
		return fmt.Errorf("webhook endpoint and text are required")
	}

	body, err := json.Marshal(payloadFor(endpoint, text))
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	n.logger.Info().Str("endpoint", redact(endpoint)).Msg("alert delivered")
	return nil
}

// payloadFor picks the message shape: Discord webhooks take {"content"},
// everything else gets the Slack-compatible {"text"}.
func payloadFor(endpoint, text string) map[string]string {
	u := strings.ToLower(endpoint)
	if strings.Contains(u, "discord.com/api/webhooks") || strings.Contains(u, "discordapp.com/api/webhooks") {
		return map[string]string{"content": text}
	}
	return map[string]string{"text": text}
}

// redact trims webhook tokens out of log output.
func redact(endpoint string) string {
	if idx := strings.Index(endpoint, "/services/"); idx > 0 {
		return endpoint[:idx] + "/services/..."
	}
	if idx := strings.Index(endpoint, "/webhooks/"); idx > 0 {
		return endpoint[:idx] + "/webhooks/..."
	}
	return endpoint
}

var _ Notifier = (*WebhookNotifier)(nil)
