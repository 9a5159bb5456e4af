//go:build unit

package reminder_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"tablebook/internal/pkg/clock"
	"tablebook/internal/usecase/reminder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReads struct {
	mu     sync.Mutex
	infos  map[uuid.UUID]*reminder.ReservationInfo
	failed error
}

func newFakeReads() *fakeReads {
	return &fakeReads{infos: make(map[uuid.UUID]*reminder.ReservationInfo)}
}

func (f *fakeReads) put(info *reminder.ReservationInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infos[info.ID] = info
}

func (f *fakeReads) setStatus(id uuid.UUID, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infos[id].Status = status
}

func (f *fakeReads) ByID(_ context.Context, id uuid.UUID) (*reminder.ReservationInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed != nil {
		return nil, f.failed
	}
	info := *f.infos[id]
	return &info, nil
}

func (f *fakeReads) ConfirmedFuture(_ context.Context, now time.Time) ([]*reminder.ReservationInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*reminder.ReservationInfo
	for _, info := range f.infos {
		if info.Status == "confirmed" && info.StartsAt.After(now) {
			cp := *info
			out = append(out, &cp)
		}
	}
	return out, nil
}

type notification struct {
	ChatID    int64
	TableName string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (f *fakeNotifier) SendReminder(_ context.Context, chatID int64, info *reminder.ReservationInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, notification{ChatID: chatID, TableName: info.TableName})
	return nil
}

func (f *fakeNotifier) sentCalls() []notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notification(nil), f.sent...)
}

type fakeTimer struct {
	at time.Time
	fn func()
}

type fakeTimerHost struct {
	mu     sync.Mutex
	nextID int
	timers map[int]fakeTimer
}

func newFakeTimerHost() *fakeTimerHost {
	return &fakeTimerHost{timers: make(map[int]fakeTimer)}
}

func (f *fakeTimerHost) Schedule(at time.Time, fn func()) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.timers[f.nextID] = fakeTimer{at: at, fn: fn}
	return f.nextID, nil
}

func (f *fakeTimerHost) Remove(handle int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.timers, handle)
}

func (f *fakeTimerHost) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

func (f *fakeTimerHost) fireAll() {
	f.mu.Lock()
	fns := make([]func(), 0, len(f.timers))
	for _, t := range f.timers {
		fns = append(fns, t.fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (f *fakeTimerHost) firingTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Time, 0, len(f.timers))
	for _, t := range f.timers {
		out = append(out, t.at)
	}
	return out
}

type fixture struct {
	reads    *fakeReads
	notifier *fakeNotifier
	timers   *fakeTimerHost
	clock    *clock.MockClock
}

func newFixture(t *testing.T, policy reminder.PastDuePolicy) (reminder.Scheduler, *fixture) {
	t.Helper()
	f := &fixture{
		reads:    newFakeReads(),
		notifier: &fakeNotifier{},
		timers:   newFakeTimerHost(),
		clock:    clock.NewMockClock(time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)),
	}
	s := reminder.NewScheduler(f.reads, f.notifier, f.timers, f.clock, 2*time.Hour, policy)
	return s, f
}

func confirmedAt(startsAt time.Time) *reminder.ReservationInfo {
	return &reminder.ReservationInfo{
		ID:        uuid.New(),
		ChatID:    445566,
		TableName: "T3",
		PartySize: 2,
		StartsAt:  startsAt,
		Status:    "confirmed",
	}
}

func TestSchedulerRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("schedules one timer at lead before start", func(t *testing.T) {
		s, f := newFixture(t, reminder.SkipPastDue)
		info := confirmedAt(f.clock.Now().Add(48 * time.Hour))
		f.reads.put(info)

		require.NoError(t, s.Register(ctx, info.ID))
		require.Equal(t, 1, f.timers.count())

		want := []time.Time{info.StartsAt.Add(-2 * time.Hour)}
		assert.Empty(t, cmp.Diff(want, f.timers.firingTimes()))
	})

	t.Run("re-register replaces the previous timer", func(t *testing.T) {
		s, f := newFixture(t, reminder.SkipPastDue)
		info := confirmedAt(f.clock.Now().Add(48 * time.Hour))
		f.reads.put(info)

		require.NoError(t, s.Register(ctx, info.ID))
		require.NoError(t, s.Register(ctx, info.ID))
		assert.Equal(t, 1, f.timers.count())
	})

	t.Run("non-confirmed reservation gets no timer", func(t *testing.T) {
		s, f := newFixture(t, reminder.SkipPastDue)
		info := confirmedAt(f.clock.Now().Add(48 * time.Hour))
		info.Status = "pending"
		f.reads.put(info)

		require.NoError(t, s.Register(ctx, info.ID))
		assert.Zero(t, f.timers.count())
	})

	t.Run("inside lead window with skip policy drops the firing", func(t *testing.T) {
		s, f := newFixture(t, reminder.SkipPastDue)
		info := confirmedAt(f.clock.Now().Add(time.Hour))
		f.reads.put(info)

		require.NoError(t, s.Register(ctx, info.ID))
		assert.Zero(t, f.timers.count())
		assert.Empty(t, f.notifier.sentCalls())
	})

	t.Run("inside lead window with immediate policy notifies right away", func(t *testing.T) {
		s, f := newFixture(t, reminder.FireImmediately)
		info := confirmedAt(f.clock.Now().Add(time.Hour))
		f.reads.put(info)

		require.NoError(t, s.Register(ctx, info.ID))
		assert.Eventually(t, func() bool {
			return len(f.notifier.sentCalls()) == 1
		}, time.Second, 10*time.Millisecond)
		assert.Equal(t, int64(445566), f.notifier.sentCalls()[0].ChatID)
	})

	t.Run("already started reservation is never reminded", func(t *testing.T) {
		s, f := newFixture(t, reminder.FireImmediately)
		info := confirmedAt(f.clock.Now().Add(-time.Hour))
		f.reads.put(info)

		require.NoError(t, s.Register(ctx, info.ID))
		assert.Zero(t, f.timers.count())
		assert.Empty(t, f.notifier.sentCalls())
	})
}

func TestSchedulerCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel removes the pending timer", func(t *testing.T) {
		s, f := newFixture(t, reminder.SkipPastDue)
		info := confirmedAt(f.clock.Now().Add(48 * time.Hour))
		f.reads.put(info)

		require.NoError(t, s.Register(ctx, info.ID))
		s.Cancel(info.ID)
		assert.Zero(t, f.timers.count())

		f.timers.fireAll()
		assert.Empty(t, f.notifier.sentCalls())
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		s, f := newFixture(t, reminder.SkipPastDue)
		s.Cancel(uuid.New())
		s.Cancel(uuid.New())
		assert.Zero(t, f.timers.count())
	})
}

func TestSchedulerOnFire(t *testing.T) {
	ctx := context.Background()

	t.Run("firing delivers exactly one reminder", func(t *testing.T) {
		s, f := newFixture(t, reminder.SkipPastDue)
		info := confirmedAt(f.clock.Now().Add(48 * time.Hour))
		f.reads.put(info)

		require.NoError(t, s.Register(ctx, info.ID))

		f.clock.Set(info.StartsAt.Add(-2 * time.Hour))
		f.timers.fireAll()

		calls := f.notifier.sentCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, "T3", calls[0].TableName)
		assert.Zero(t, f.timers.count())
	})

	t.Run("stale firing after cancellation is a no-op", func(t *testing.T) {
		s, f := newFixture(t, reminder.SkipPastDue)
		info := confirmedAt(f.clock.Now().Add(48 * time.Hour))
		f.reads.put(info)

		require.NoError(t, s.Register(ctx, info.ID))

		// reservation canceled behind the scheduler's back
		f.reads.setStatus(info.ID, "canceled")
		f.clock.Set(info.StartsAt.Add(-2 * time.Hour))
		f.timers.fireAll()

		assert.Empty(t, f.notifier.sentCalls())
	})

	t.Run("early firing reschedules instead of notifying", func(t *testing.T) {
		s, f := newFixture(t, reminder.SkipPastDue)
		// calendar-matching backends revisit the same date once a cycle, so a
		// reservation over a year out sees its timer come around early
		info := confirmedAt(f.clock.Now().AddDate(1, 1, 0))
		f.reads.put(info)

		require.NoError(t, s.Register(ctx, info.ID))

		// backend fires a year before the computed instant
		f.timers.fireAll()

		assert.Empty(t, f.notifier.sentCalls())
		require.Equal(t, 1, f.timers.count())
		want := []time.Time{info.StartsAt.Add(-2 * time.Hour)}
		assert.Empty(t, cmp.Diff(want, f.timers.firingTimes()))
	})

	t.Run("firing after the start time is suppressed", func(t *testing.T) {
		s, f := newFixture(t, reminder.SkipPastDue)
		info := confirmedAt(f.clock.Now().Add(48 * time.Hour))
		f.reads.put(info)

		require.NoError(t, s.Register(ctx, info.ID))

		// timer fires very late, past the reservation start
		f.clock.Set(info.StartsAt.Add(time.Minute))
		f.timers.fireAll()

		assert.Empty(t, f.notifier.sentCalls())
	})
}

func TestSchedulerReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("rebuilds timers for confirmed future reservations", func(t *testing.T) {
		s, f := newFixture(t, reminder.SkipPastDue)
		now := f.clock.Now()

		f.reads.put(confirmedAt(now.Add(24 * time.Hour)))
		f.reads.put(confirmedAt(now.Add(48 * time.Hour)))
		f.reads.put(confirmedAt(now.Add(72 * time.Hour)))

		pending := confirmedAt(now.Add(24 * time.Hour))
		pending.Status = "pending"
		f.reads.put(pending)

		past := confirmedAt(now.Add(-24 * time.Hour))
		f.reads.put(past)

		require.NoError(t, s.Reconcile(ctx))
		assert.Equal(t, 3, f.timers.count())
	})
}
