package bootstrap

import (
	"context"

	"tablebook/internal/infra/timer"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/config"
	"tablebook/internal/usecase/reminder"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		fx.Annotate(
			NewTimerHost,
			fx.As(new(reminder.TimerHost)),
		),
		NewReminderScheduler,
	),
	fx.Invoke(reconcileOnStart),
)

func NewTimerHost(lc fx.Lifecycle) *timer.CronTimerHost {
	host := timer.NewCronTimerHost()
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			host.Stop()
			return nil
		},
	})
	return host
}

func NewReminderScheduler(
	reads reminder.ReservationReads,
	notify reminder.Notifier,
	timers reminder.TimerHost,
	clk clock.Clock,
	cfg config.Config,
) reminder.Scheduler {
	return reminder.NewScheduler(
		reads,
		notify,
		timers,
		clk,
		cfg.Venue.ReminderLead,
		reminder.PastDuePolicy(cfg.Venue.ReminderPastDuePolicy),
	)
}

// reconcileOnStart rebuilds timers from persisted reservations before the
// HTTP server begins accepting traffic, so a restart never loses reminders.
func reconcileOnStart(lc fx.Lifecycle, scheduler reminder.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scheduler.Reconcile(ctx)
		},
	})
}
