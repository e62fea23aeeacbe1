package push

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/brieflyai/brieflyai/internal/models"
)

// TelegramChannel mirrors the digest to a telegram chat. Optional: it only
// participates in fan-out when both the bot token and chat id are set.
type TelegramChannel struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramChannel(token string, chatID int64) (*TelegramChannel, error) {
	if token == "" || chatID == 0 {
		return &TelegramChannel{}, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramChannel{api: api, chatID: chatID}, nil
}

func (c *TelegramChannel) Name() string { return "telegram" }

func (c *TelegramChannel) Configured() bool { return c != nil && c.api != nil }

func (c *TelegramChannel) Send(ctx context.Context, report *models.BriefingReport) error {
	msg := tgbotapi.NewMessage(c.chatID, Digest(report))
	msg.DisableWebPagePreview = true

	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	return nil
}
