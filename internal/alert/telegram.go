package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"solana-launch-alerts/internal/domain"
)

// DefaultTelegramAPIURL is the Bot API base URL.
const DefaultTelegramAPIURL = "https://api.telegram.org"

// TelegramConfig configures TelegramNotifier.
type TelegramConfig struct {
	APIURL   string
	BotToken string
	ChatID   string
	Timeout  time.Duration
}

// TelegramNotifier sends alerts through the Telegram Bot API.
type TelegramNotifier struct {
	endpoint string
	token    string
	chatID   string
	client   *http.Client
}

// NewTelegramNotifier creates a Telegram notifier.
func NewTelegramNotifier(cfg TelegramConfig) *TelegramNotifier {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultTelegramAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &TelegramNotifier{
		endpoint: fmt.Sprintf("%s/bot%s/sendMessage", cfg.APIURL, cfg.BotToken),
		token:    cfg.BotToken,
		chatID:   cfg.ChatID,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// Name implements Notifier.
func (n *TelegramNotifier) Name() string { return "telegram" }

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Notify posts the alert text to the configured chat.
func (n *TelegramNotifier) Notify(ctx context.Context, a Alert) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:                n.chatID,
		Text:                  a.Text(),
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", domain.ErrNotificationDeliveryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: create request: %s", domain.ErrNotificationDeliveryFailed, n.redact(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: telegram: %s", domain.ErrNotificationDeliveryFailed, n.redact(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("%w: read response: %s", domain.ErrNotificationDeliveryFailed, n.redact(err))
	}

	var result sendMessageResponse
	if err := json.Unmarshal(raw, &result); err != nil || resp.StatusCode != http.StatusOK || !result.OK {
		return fmt.Errorf("%w: telegram HTTP %d: %s", domain.ErrNotificationDeliveryFailed, resp.StatusCode, result.Description)
	}
	return nil
}

// redact renders err without the request URL, which carries the bot token.
func (n *TelegramNotifier) redact(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) {
		err = ue.Err
	}
	msg := err.Error()
	if n.token != "" {
		msg = strings.ReplaceAll(msg, n.token, "<redacted>")
	}
	return msg
}
