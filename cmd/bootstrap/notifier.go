package bootstrap

import (
	"tablebook/internal/infra/notifier"
	"tablebook/internal/pkg/config"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/reminder"

	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		fx.Annotate(
			NewTelegramNotifier,
			fx.As(new(commands.AdminNotifier)),
			fx.As(new(reminder.Notifier)),
		),
	),
)

func NewTelegramNotifier(cfg config.Config) (*notifier.TelegramNotifier, error) {
	return notifier.NewTelegramNotifier(cfg.Telegram)
}
