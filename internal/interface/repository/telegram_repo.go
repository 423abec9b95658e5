package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
	"github.com/Sontome/web-b2b-thuhongtour/templates"
)

// TelegramNotifier sends price alerts through each agent's own Telegram bot
type TelegramNotifier struct {
	logger  logger.Logger
	baseURL string
	client  *http.Client
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(baseURL string, logger logger.Logger) repository.PriceAlertNotifier {
	return &TelegramNotifier{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type telegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Channel names the notifier
func (n *TelegramNotifier) Channel() string {
	return "telegram"
}

// Enabled reports whether the agent configured a bot key and chat id
func (n *TelegramNotifier) Enabled(profile *entity.AgentProfile) bool {
	return profile.TelegramAPIKey != "" && profile.TelegramChatID != ""
}

// Send posts the alert with the Bot API sendMessage method
func (n *TelegramNotifier) Send(ctx context.Context, profile *entity.AgentProfile, alert entity.PriceCheckResult) error {
	msg := telegramMessage{
		ChatID: profile.TelegramChatID,
		Text:   templates.PriceAlertSubject(alert) + "\n\n" + templates.PriceAlertBody(profile, alert),
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, profile.TelegramAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", withoutURL(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", withoutURL(err))
	}
	defer resp.Body.Close()

	var response struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
		Result      struct {
			MessageID int64 `json:"message_id"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("telegram returned status %d: failed to decode response: %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || !response.OK {
		return fmt.Errorf("telegram returned status %d: %s", resp.StatusCode, response.Description)
	}

	n.logger.Info("Price alert sent to Telegram",
		"agentID", profile.ID,
		"flightID", alert.FlightID,
		"messageId", response.Result.MessageID)

	return nil
}

// withoutURL strips the request URL, which embeds the bot token, from err
func withoutURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
