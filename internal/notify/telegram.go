// Package notify sends risk alerts to a Telegram chat.
package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"portfolioTracker/internal/common"
)

// Notifier delivers risk-flag alerts. It is optional: when no bot token is
// configured the server runs without one.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *common.Logger
}

func New(token string, chatID int64, logger *common.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}
	return &Notifier{api: api, chatID: chatID, log: logger}, nil
}

// RiskAlert sends one message listing the raised flags.
func (n *Notifier) RiskAlert(flags []string, latestValue float64) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio risk flags (value $%.2f):\n", latestValue)
	for _, flag := range flags {
		fmt.Fprintf(&b, "- %s\n", flag)
	}

	msg := tgbotapi.NewMessage(n.chatID, b.String())
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram alert: %w", err)
	}
	n.log.Info().Int("flags", len(flags)).Msg("risk alert sent")
	return nil
}
