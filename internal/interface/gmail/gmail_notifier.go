// Package gmail sends agent notifications through the Gmail API
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
	"github.com/Sontome/web-b2b-thuhongtour/templates"
)

// Notifier emails price alerts to the agent's ticket email
type Notifier struct {
	gmailService *gmail.Service
	sender       string
	logger       logger.Logger
}

// NewNotifier creates a Gmail notifier sending as sender.
// Pass option.WithTokenSource in production.
func NewNotifier(ctx context.Context, sender string, logger logger.Logger, opts ...option.ClientOption) (repository.PriceAlertNotifier, error) {
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &Notifier{
		gmailService: service,
		sender:       sender,
		logger:       logger,
	}, nil
}

// Channel names the notifier
func (n *Notifier) Channel() string {
	return "gmail"
}

// Enabled reports whether the agent has a ticket email
func (n *Notifier) Enabled(profile *entity.AgentProfile) bool {
	return strings.TrimSpace(profile.TicketEmail) != ""
}

// Send emails the alert
func (n *Notifier) Send(ctx context.Context, profile *entity.AgentProfile, alert entity.PriceCheckResult) error {
	raw := buildMessage(n.sender, profile.TicketEmail, templates.PriceAlertSubject(alert), templates.PriceAlertBody(profile, alert))

	sent, err := n.gmailService.Users.Messages.
		Send("me", &gmail.Message{Raw: raw}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to send gmail message: %w", err)
	}

	n.logger.Info("Price alert emailed",
		"agentID", profile.ID,
		"flightID", alert.FlightID,
		"messageID", sent.Id)

	return nil
}

// buildMessage returns a base64url encoded RFC 2822 message
func buildMessage(from, to, subject, body string) string {
	var b strings.Builder
	if from != "" {
		fmt.Fprintf(&b, "From: %s\r\n", from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
	b.WriteString(base64.StdEncoding.EncodeToString([]byte(body)))

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}
