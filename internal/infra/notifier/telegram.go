package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"tablebook/internal/pkg/config"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/usecase/reminder"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers guest reminders and admin alerts over the bot
// API. Delivery failures never propagate into reservation state; callers
// treat every send as best effort.
type TelegramNotifier struct {
	bot          *tgbotapi.BotAPI
	adminChatIDs []int64
}

func NewTelegramNotifier(cfg config.TelegramConfig) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, errs.Wrap(err, "failed to initialize telegram bot")
	}
	slog.Info("telegram bot authorized", "account", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, adminChatIDs: cfg.AdminChatIDs}, nil
}

func (n *TelegramNotifier) SendReminder(_ context.Context, chatID int64, info *reminder.ReservationInfo) error {
	text := fmt.Sprintf(
		"Reminder: your table %s for %d guests is booked for %s. See you soon!",
		info.TableName, info.PartySize, info.StartsAt.Format("15:04 on Jan 2"),
	)
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return errs.Wrap(err, "failed to send telegram reminder")
	}
	return nil
}

// NotifyAdmins fans a short alert out to every configured admin chat.
// Partial failure is logged per chat and swallowed.
func (n *TelegramNotifier) NotifyAdmins(_ context.Context, text string) {
	for _, chatID := range n.adminChatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			slog.Error("failed to notify admin", "chat_id", chatID, "error", err.Error())
		}
	}
}
