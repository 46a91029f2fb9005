// Package alert dispatches crowd-risk push notifications.
//
// Alerting is strictly an outbound side channel: failures are logged and
// never propagated, so a broken notification endpoint cannot fail an
// analysis response.
package alert

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Notifier is the outbound alerting boundary. HighRisk is invoked by the API
// layer whenever a frame classifies as HIGH.
type Notifier interface {
	HighRisk(ctx context.Context, peopleCount int) error
}

// DefaultTopic is the ntfy.sh topic alerts are published to unless
// configured otherwise.
const DefaultTopic = "crowdguardian_cit_hack"

const ntfyTimeout = 3 * time.Second

// NtfyNotifier publishes push notifications via the ntfy.sh service.
type NtfyNotifier struct {
	// Topic is the ntfy topic name.
	Topic string

	// BaseURL overrides the ntfy endpoint, used by tests. Empty means
	// https://ntfy.sh.
	BaseURL string

	client *http.Client
}

var _ Notifier = (*NtfyNotifier)(nil)

// NewNtfyNotifier creates a notifier for the given topic; an empty topic
// falls back to DefaultTopic.
func NewNtfyNotifier(topic string) *NtfyNotifier {
	if topic == "" {
		topic = DefaultTopic
	}
	return &NtfyNotifier{
		Topic:  topic,
		client: &http.Client{Timeout: ntfyTimeout},
	}
}

// HighRisk publishes a high-priority push message with the people count.
func (n *NtfyNotifier) HighRisk(ctx context.Context, peopleCount int) error {
	base := n.BaseURL
	if base == "" {
		base = "https://ntfy.sh"
	}
	url := fmt.Sprintf("%s/%s", base, n.Topic)
	message := fmt.Sprintf(
		"🚨 HIGH RISK ALERT! Crowd density is critical. Detected %d people in the area. Please redirect flow.",
		peopleCount)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("failed to build alert request: %w", err)
	}
	req.Header.Set("Title", "CrowdGuardian Alert")
	req.Header.Set("Priority", "high")
	req.Header.Set("Tags", "rotating_light,warning")

	client := n.client
	if client == nil {
		client = &http.Client{Timeout: ntfyTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("alert endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
