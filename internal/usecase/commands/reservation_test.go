//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/domain/table"
	"tablebook/internal/domain/user"
	reqdto "tablebook/internal/handler/dto/request"
	"tablebook/internal/infra"
	"tablebook/internal/infra/db"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/config"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"
	"tablebook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- in-memory unit of work -------------------------------------------------

type fakeReservationRepo struct {
	mu        sync.Mutex
	stored    map[uuid.UUID]*reservation.Reservation
	occupied  map[uuid.UUID]struct{}
	activeNum int
	createErr error
	casResult bool
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{
		stored:    make(map[uuid.UUID]*reservation.Reservation),
		occupied:  make(map[uuid.UUID]struct{}),
		casResult: true,
	}
}

func (f *fakeReservationRepo) Create(_ context.Context, _ db.DBTX, res *reservation.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.stored[res.ID()] = res
	return nil
}

func (f *fakeReservationRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.stored[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", errors.New("no rows"), infra.KindNotFound)
	}
	return res, nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, _ db.DBTX, _ uuid.UUID, _, _ reservation.Status) (bool, error) {
	return f.casResult, nil
}

func (f *fakeReservationRepo) OccupiedTableIDs(_ context.Context, _ db.DBTX, _ reservation.TimeSlot) (map[uuid.UUID]struct{}, error) {
	return f.occupied, nil
}

func (f *fakeReservationRepo) CountActiveCreatedBetween(_ context.Context, _ db.DBTX, _, _ time.Time, _ *uuid.UUID) (int, error) {
	return f.activeNum, nil
}

type fakeTableRepo struct {
	tables []*table.Table
}

func (f *fakeTableRepo) ListByMinCapacity(_ context.Context, _ db.DBTX, partySize int) ([]*table.Table, error) {
	var out []*table.Table
	for _, t := range f.tables {
		if t.Fits(partySize) {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeUserRepo struct{}

func (f *fakeUserRepo) Ensure(_ context.Context, _ db.DBTX, chatID int64, firstName, lastName, username string) (*user.User, error) {
	return user.NewUser(chatID, firstName, lastName, username)
}

func (f *fakeUserRepo) FindByID(_ context.Context, _ db.DBTX, _ uuid.UUID) (*user.User, error) {
	return nil, infra.WrapRepoErr("user not found", errors.New("no rows"), infra.KindNotFound)
}

func (f *fakeUserRepo) FindByChatID(_ context.Context, _ db.DBTX, _ int64) (*user.User, error) {
	return nil, infra.WrapRepoErr("user not found", errors.New("no rows"), infra.KindNotFound)
}

type fakeTx struct {
	res *fakeReservationRepo
	tbl *fakeTableRepo
	usr *fakeUserRepo
}

func (f *fakeTx) Reservations() shared.ReservationRepository { return f.res }
func (f *fakeTx) Tables() shared.TableRepository             { return f.tbl }
func (f *fakeTx) Users() shared.UserRepository               { return f.usr }
func (f *fakeTx) DB() db.DBTX                                { return nil }

type fakeUoW struct {
	tx *fakeTx
}

func (f *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, f.tx)
}

func (f *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

// ---- read side / side-effect stubs -----------------------------------------

type fakeViewRepo struct {
	repo *fakeReservationRepo
}

func (f *fakeViewRepo) FindByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	f.repo.mu.Lock()
	defer f.repo.mu.Unlock()
	res, ok := f.repo.stored[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", errors.New("no rows"), infra.KindNotFound)
	}
	return &queries.ReservationView{
		ID:        res.ID(),
		UserID:    res.UserID(),
		ChatID:    42,
		TableID:   res.TableID(),
		TableName: "T1",
		Name:      res.Contact().Name(),
		Phone:     res.Contact().Phone(),
		PartySize: res.PartySize(),
		StartsAt:  res.Slot().Start(),
		EndsAt:    res.Slot().End(),
		Status:    res.Status().String(),
	}, nil
}

func (f *fakeViewRepo) FindUpcomingByChatID(_ context.Context, _ int64, _ time.Time) ([]*queries.ReservationView, error) {
	return nil, nil
}

func (f *fakeViewRepo) FindByStatus(_ context.Context, _ string) ([]*queries.ReservationView, error) {
	return nil, nil
}

type stubScheduler struct {
	mu         sync.Mutex
	registered []uuid.UUID
	canceled   []uuid.UUID
}

func (s *stubScheduler) Register(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registered = append(s.registered, id)
	return nil
}

func (s *stubScheduler) Cancel(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canceled = append(s.canceled, id)
}

func (s *stubScheduler) Reconcile(_ context.Context) error { return nil }

type stubNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (n *stubNotifier) NotifyAdmins(_ context.Context, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
}

// ---- fixture ----------------------------------------------------------------

type commandsFixture struct {
	repo      *fakeReservationRepo
	tbl       *fakeTableRepo
	scheduler *stubScheduler
	notifier  *stubNotifier
	clock     *clock.MockClock
	venue     config.VenueConfig
}

func newCommands(t *testing.T, mutate func(*commandsFixture)) (commands.ReservationCommands, *commandsFixture) {
	t.Helper()

	tbl2, err := table.NewTable(uuid.New(), "T1", 2)
	require.NoError(t, err)
	tbl4, err := table.NewTable(uuid.New(), "T5", 4)
	require.NoError(t, err)
	tbl6, err := table.NewTable(uuid.New(), "T9", 6)
	require.NoError(t, err)

	f := &commandsFixture{
		repo:      newFakeReservationRepo(),
		tbl:       &fakeTableRepo{tables: []*table.Table{tbl2, tbl4, tbl6}},
		scheduler: &stubScheduler{},
		notifier:  &stubNotifier{},
		clock:     clock.NewMockClock(time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)),
		venue:     config.NewTestConfig().Venue,
	}
	if mutate != nil {
		mutate(f)
	}

	uow := &fakeUoW{tx: &fakeTx{res: f.repo, tbl: f.tbl, usr: &fakeUserRepo{}}}
	reservationQueries := queries.NewReservationQueries(&fakeViewRepo{repo: f.repo}, f.clock)

	cmds := commands.NewReservationCommands(
		uow,
		commands.NewAvailabilityResolver(),
		reservationQueries,
		f.scheduler,
		f.notifier,
		f.venue,
		f.clock,
	)
	return cmds, f
}

func validRequest(f *commandsFixture) reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		ChatID:    42,
		FirstName: "Taro",
		Name:      "Taro Yamada",
		Phone:     "+81 90-1234-5678",
		PartySize: 2,
		StartsAt:  f.clock.Now().Add(48 * time.Hour),
	}
}

// ---- tests ------------------------------------------------------------------

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("small party is auto-confirmed and scheduled", func(t *testing.T) {
		cmds, f := newCommands(t, nil)

		view, err := cmds.Create(ctx, validRequest(f))
		require.NoError(t, err)
		assert.Equal(t, "confirmed", view.Status)
		// party of 2 lands on the two-seat table
		assert.Equal(t, f.tbl.tables[0].ID(), view.TableID)

		assert.Equal(t, []uuid.UUID{view.ID}, f.scheduler.registered)
		assert.Len(t, f.notifier.texts, 1)
		assert.Contains(t, f.notifier.texts[0], "auto-confirmed")
	})

	t.Run("large party stays pending", func(t *testing.T) {
		cmds, f := newCommands(t, nil)
		req := validRequest(f)
		req.PartySize = 6

		view, err := cmds.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "pending", view.Status)

		assert.Empty(t, f.scheduler.registered)
		assert.Len(t, f.notifier.texts, 1)
		assert.Contains(t, f.notifier.texts[0], "pending review")
	})

	t.Run("misaligned start", func(t *testing.T) {
		cmds, f := newCommands(t, nil)
		req := validRequest(f)
		req.StartsAt = req.StartsAt.Add(7 * time.Minute)

		_, err := cmds.Create(ctx, req)
		assert.ErrorIs(t, err, commands.ErrDomainValidation)
		assert.ErrorIs(t, err, reservation.ErrMisalignedSlot)
	})

	t.Run("insufficient notice", func(t *testing.T) {
		cmds, f := newCommands(t, nil)
		req := validRequest(f)
		req.StartsAt = f.clock.Now().Add(2 * time.Hour)

		_, err := cmds.Create(ctx, req)
		assert.ErrorIs(t, err, reservation.ErrInsufficientNotice)
	})

	t.Run("bad contact", func(t *testing.T) {
		cmds, f := newCommands(t, nil)
		req := validRequest(f)
		req.Phone = "none"

		_, err := cmds.Create(ctx, req)
		assert.ErrorIs(t, err, commands.ErrDomainValidation)
	})

	t.Run("daily limit reached", func(t *testing.T) {
		cmds, f := newCommands(t, func(f *commandsFixture) {
			f.repo.activeNum = f.venue.DailyReservationLimit
		})

		_, err := cmds.Create(ctx, validRequest(f))
		assert.ErrorIs(t, err, commands.ErrDailyLimitReached)
		assert.Empty(t, f.notifier.texts)
	})

	t.Run("no table fits the party", func(t *testing.T) {
		cmds, f := newCommands(t, nil)
		req := validRequest(f)
		req.PartySize = 10

		_, err := cmds.Create(ctx, req)
		assert.ErrorIs(t, err, commands.ErrNoTableAvailable)
		// capacity shortfall, not a slot collision
		assert.ErrorIs(t, err, table.ErrNoSuitableCapacity)
	})

	t.Run("all fitting tables occupied", func(t *testing.T) {
		cmds, f := newCommands(t, func(f *commandsFixture) {
			for _, tbl := range f.tbl.tables {
				f.repo.occupied[tbl.ID()] = struct{}{}
			}
		})

		_, err := cmds.Create(ctx, validRequest(f))
		assert.ErrorIs(t, err, commands.ErrNoTableAvailable)
	})

	t.Run("exclusion violation maps to conflict", func(t *testing.T) {
		cmds, f := newCommands(t, func(f *commandsFixture) {
			f.repo.createErr = infra.WrapRepoErr("insert failed", errors.New("exclusion"), infra.KindConflict)
		})

		_, err := cmds.Create(ctx, validRequest(f))
		assert.ErrorIs(t, err, commands.ErrTableConflict)
		assert.Empty(t, f.scheduler.registered)
	})
}

func TestReservationTransitions(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, cmds commands.ReservationCommands, f *commandsFixture, partySize int) uuid.UUID {
		t.Helper()
		req := validRequest(f)
		req.PartySize = partySize
		view, err := cmds.Create(ctx, req)
		require.NoError(t, err)
		return view.ID
	}

	t.Run("confirm pending schedules a reminder", func(t *testing.T) {
		cmds, f := newCommands(t, nil)
		id := seed(t, cmds, f, 6) // pending

		view, err := cmds.Confirm(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "confirmed", view.Status)
		assert.Equal(t, []uuid.UUID{id}, f.scheduler.registered)
	})

	t.Run("cancel drops the reminder", func(t *testing.T) {
		cmds, f := newCommands(t, nil)
		id := seed(t, cmds, f, 2) // auto-confirmed

		view, err := cmds.Cancel(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "canceled", view.Status)
		assert.Equal(t, []uuid.UUID{id}, f.scheduler.canceled)
	})

	t.Run("stop requires confirmed", func(t *testing.T) {
		cmds, f := newCommands(t, nil)
		id := seed(t, cmds, f, 6) // pending

		_, err := cmds.Stop(ctx, id)
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
		assert.Empty(t, f.scheduler.canceled)
	})

	t.Run("double cancel is rejected", func(t *testing.T) {
		cmds, f := newCommands(t, nil)
		id := seed(t, cmds, f, 2)

		_, err := cmds.Cancel(ctx, id)
		require.NoError(t, err)

		_, err = cmds.Cancel(ctx, id)
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		cmds, _ := newCommands(t, nil)

		_, err := cmds.Confirm(ctx, uuid.New())
		assert.ErrorIs(t, err, commands.ErrReservationNotFound)
	})

	t.Run("concurrent status change loses the race", func(t *testing.T) {
		cmds, f := newCommands(t, nil)
		id := seed(t, cmds, f, 6)
		f.repo.casResult = false

		_, err := cmds.Confirm(ctx, id)
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
	})
}
