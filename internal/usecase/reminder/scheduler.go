package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrSchedulingFailed = errs.New("failed to schedule reminder")

// ReservationInfo is the snapshot the scheduler works with: enough to decide
// whether to fire and to build the message, nothing more.
type ReservationInfo struct {
	ID        uuid.UUID
	ChatID    int64
	TableName string
	PartySize int
	StartsAt  time.Time
	Status    string
}

func (i *ReservationInfo) IsConfirmed() bool {
	return i.Status == "confirmed"
}

func (i *ReservationInfo) HasStarted(now time.Time) bool {
	return !now.Before(i.StartsAt)
}

type ReservationReads interface {
	ByID(ctx context.Context, id uuid.UUID) (*ReservationInfo, error)
	ConfirmedFuture(ctx context.Context, now time.Time) ([]*ReservationInfo, error)
}

type Notifier interface {
	SendReminder(ctx context.Context, chatID int64, info *ReservationInfo) error
}

// TimerHost owns the actual timers. Schedule arranges fn to run once at the
// given UTC instant and returns a cancellable handle.
type TimerHost interface {
	Schedule(at time.Time, fn func()) (int, error)
	Remove(handle int)
}

// PastDuePolicy decides what happens when a confirmation lands inside the
// lead window, i.e. the computed firing instant is already behind us.
type PastDuePolicy string

const (
	// FireImmediately sends the reminder right away as long as the
	// reservation itself has not started yet.
	FireImmediately PastDuePolicy = "immediate"
	// SkipPastDue logs and drops the firing instead.
	SkipPastDue PastDuePolicy = "skip"
)

type Scheduler interface {
	// Register ensures exactly one future firing for the reservation.
	// Re-registering replaces any previous timer.
	Register(ctx context.Context, id uuid.UUID) error
	// Cancel drops the pending firing, if any. Idempotent.
	Cancel(id uuid.UUID)
	// Reconcile rebuilds the timer index from persisted state. Run once
	// at startup, before traffic is accepted.
	Reconcile(ctx context.Context) error
}

type scheduler struct {
	reads    ReservationReads
	notifier Notifier
	timers   TimerHost
	clock    clock.Clock
	lead     time.Duration
	policy   PastDuePolicy

	mu      sync.Mutex
	entries map[uuid.UUID]int
}

func NewScheduler(reads ReservationReads, notifier Notifier, timers TimerHost, clk clock.Clock, lead time.Duration, policy PastDuePolicy) Scheduler {
	return &scheduler{
		reads:    reads,
		notifier: notifier,
		timers:   timers,
		clock:    clk,
		lead:     lead,
		policy:   policy,
		entries:  make(map[uuid.UUID]int),
	}
}

func (s *scheduler) Register(ctx context.Context, id uuid.UUID) error {
	info, err := s.reads.ByID(ctx, id)
	if err != nil {
		return errs.Mark(err, ErrSchedulingFailed)
	}
	return s.register(info)
}

func (s *scheduler) register(info *ReservationInfo) error {
	if !info.IsConfirmed() {
		s.Cancel(info.ID)
		return nil
	}

	now := s.clock.Now()
	fireAt := info.StartsAt.Add(-s.lead)

	if !fireAt.After(now) {
		if info.HasStarted(now) {
			slog.Warn("reminder skipped, reservation already started",
				"reservation_id", info.ID, "starts_at", info.StartsAt)
			return nil
		}
		if s.policy == SkipPastDue {
			slog.Warn("reminder inside lead window skipped by policy",
				"reservation_id", info.ID, "fire_at", fireAt)
			return nil
		}
		// Short-notice confirmation: the guest still deserves the nudge.
		go s.onFire(info.ID)
		return nil
	}

	id := info.ID
	handle, err := s.timers.Schedule(fireAt, func() { s.onFire(id) })
	if err != nil {
		return errs.Mark(err, ErrSchedulingFailed)
	}

	s.mu.Lock()
	if old, ok := s.entries[id]; ok {
		s.timers.Remove(old)
	}
	s.entries[id] = handle
	s.mu.Unlock()

	slog.Info("reminder scheduled", "reservation_id", id, "fire_at", fireAt)
	return nil
}

func (s *scheduler) Cancel(id uuid.UUID) {
	s.mu.Lock()
	handle, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	if ok {
		s.timers.Remove(handle)
		slog.Info("reminder canceled", "reservation_id", id)
	}
}

func (s *scheduler) Reconcile(ctx context.Context) error {
	infos, err := s.reads.ConfirmedFuture(ctx, s.clock.Now())
	if err != nil {
		return errs.Mark(err, ErrSchedulingFailed)
	}

	registered := 0
	for _, info := range infos {
		if err := s.register(info); err != nil {
			slog.Error("failed to reschedule reminder during reconcile",
				"reservation_id", info.ID, "error", err.Error())
			continue
		}
		registered++
	}

	slog.Info("reminder schedule reconciled", "reservations", len(infos), "registered", registered)
	return nil
}

// onFire re-reads persisted truth before touching the notifier: the
// reservation may have been canceled or stopped after this timer was set.
// A stale firing is a no-op.
func (s *scheduler) onFire(id uuid.UUID) {
	s.mu.Lock()
	if handle, ok := s.entries[id]; ok {
		delete(s.entries, id)
		s.timers.Remove(handle)
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, err := s.reads.ByID(ctx, id)
	if err != nil {
		slog.Error("failed to re-read reservation on reminder firing",
			"reservation_id", id, "error", err.Error())
		return
	}
	if !info.IsConfirmed() || info.HasStarted(s.clock.Now()) {
		slog.Info("stale reminder dropped", "reservation_id", id, "status", info.Status)
		return
	}

	// A calendar-matching timer backend can come around before the computed
	// instant when the firing lies more than a cycle ahead. Put the timer
	// back instead of reminding early.
	if fireAt := info.StartsAt.Add(-s.lead); s.clock.Now().Before(fireAt) {
		slog.Warn("reminder fired ahead of schedule, rescheduling",
			"reservation_id", id, "fire_at", fireAt)
		if err := s.register(info); err != nil {
			slog.Error("failed to reschedule early reminder",
				"reservation_id", id, "error", err.Error())
		}
		return
	}

	if err := s.notifier.SendReminder(ctx, info.ChatID, info); err != nil {
		// Delivery is best effort; reservation state is never touched.
		slog.Error("failed to deliver reminder", "reservation_id", id, "error", err.Error())
		return
	}
	slog.Info("reminder delivered", "reservation_id", id, "chat_id", info.ChatID)
}
