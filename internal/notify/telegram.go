// Package notify delivers outbound Telegram messages. Delivery is strictly
// best-effort: callers bound each send with the configured timeout and are
// expected to log failures rather than propagate them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Notifier is the single capability the rest of the system relies on.
type Notifier interface {
	Send(ctx context.Context, chatID, text string) error
}

type Telegram struct {
	botToken string
	timeout  time.Duration
	client   *http.Client
	baseURL  string
}

func NewTelegram(botToken string, timeout time.Duration) *Telegram {
	return &Telegram{
		botToken: botToken,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
		baseURL:  "https://api.telegram.org",
	}
}

func (t *Telegram) Send(ctx context.Context, chatID, text string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", text)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<10))
		return fmt.Errorf("telegram sendMessage: status %d: %s", res.StatusCode, body)
	}

	var reply struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(res.Body).Decode(&reply); err != nil {
		return fmt.Errorf("telegram sendMessage: decode response: %w", err)
	}
	if !reply.OK {
		return fmt.Errorf("telegram sendMessage: api returned ok=false")
	}
	return nil
}

// Disabled is used when no bot token is configured.
type Disabled struct{}

func (Disabled) Send(context.Context, string, string) error {
	return fmt.Errorf("telegram notifications are not configured")
}
