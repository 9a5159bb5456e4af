package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tablebook/internal/domain/reservation"
	reqdto "tablebook/internal/handler/dto/request"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/config"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/usecase/queries"
	"tablebook/internal/usecase/reminder"
	"tablebook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound     = errs.New("reservation not found")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDailyLimitReached       = errs.New("daily reservation limit reached")
	ErrTableConflict           = errs.New("table already booked for an overlapping slot")
	ErrInvalidTransition       = errs.New("status transition not allowed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type ReservationCommands interface {
	Create(ctx context.Context, req reqdto.CreateReservationRequest) (*queries.ReservationView, error)
	Confirm(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)
	Cancel(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)
	Stop(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)
}

type reservationCommandsImpl struct {
	uow       shared.UnitOfWork
	resolver  *AvailabilityResolver
	queries   queries.ReservationQueries
	scheduler reminder.Scheduler
	notifier  AdminNotifier
	policy    reservation.BookingPolicy
	venue     config.VenueConfig
	clock     clock.Clock
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	resolver *AvailabilityResolver,
	reservationQueries queries.ReservationQueries,
	scheduler reminder.Scheduler,
	notifier AdminNotifier,
	venue config.VenueConfig,
	clk clock.Clock,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:       uow,
		resolver:  resolver,
		queries:   reservationQueries,
		scheduler: scheduler,
		notifier:  notifier,
		policy: reservation.BookingPolicy{
			Duration:       venue.ReservationDuration,
			SlotStep:       venue.SlotStep,
			MinAdvance:     venue.MinAdvance,
			SameDayAllowed: venue.SameDayAllowed,
		},
		venue: venue,
		clock: clk,
	}
}

func (c *reservationCommandsImpl) Create(ctx context.Context, req reqdto.CreateReservationRequest) (*queries.ReservationView, error) {
	now := c.clock.Now()

	contact, err := reservation.NewContact(req.Name, req.Phone)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	slot, err := c.policy.Window(now, req.StartsAt)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var reservationID uuid.UUID
	var confirmed bool
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		usr, err := tx.Users().Ensure(ctx, tx.DB(), req.ChatID, req.FirstName, req.LastName, req.Username)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := c.checkDailyLimit(ctx, tx, now, usr.ID()); err != nil {
			return err
		}

		tbl, err := c.resolver.FindTable(ctx, tx, req.PartySize, slot)
		if err != nil {
			return err
		}

		res, err := reservation.NewReservation(usr.ID(), tbl.ID(), contact, req.PartySize, slot)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		if req.PartySize <= c.venue.AutoConfirmMaxParty {
			res.MarkConfirmed()
		}

		if err := tx.Reservations().Create(ctx, tx.DB(), res); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrTableConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		reservationID = res.ID()
		confirmed = res.Status() == reservation.StatusConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Read-after-write so the caller gets the joined view.
	view, err := c.queries.GetByID(ctx, reservationID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if confirmed {
		if err := c.scheduler.Register(ctx, reservationID); err != nil {
			slog.Error("failed to schedule reminder for new reservation",
				"reservation_id", reservationID, "error", err.Error())
		}
	}
	c.notifier.NotifyAdmins(ctx, bookingAlertText(view, confirmed))

	return view, nil
}

func (c *reservationCommandsImpl) Confirm(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	view, err := c.transition(ctx, id, func(res *reservation.Reservation) error {
		return res.Confirm()
	})
	if err != nil {
		return nil, err
	}

	if err := c.scheduler.Register(ctx, id); err != nil {
		slog.Error("failed to schedule reminder on confirmation",
			"reservation_id", id, "error", err.Error())
	}
	return view, nil
}

func (c *reservationCommandsImpl) Cancel(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	view, err := c.transition(ctx, id, func(res *reservation.Reservation) error {
		return res.Cancel()
	})
	if err != nil {
		return nil, err
	}

	c.scheduler.Cancel(id)
	return view, nil
}

func (c *reservationCommandsImpl) Stop(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	view, err := c.transition(ctx, id, func(res *reservation.Reservation) error {
		return res.Stop()
	})
	if err != nil {
		return nil, err
	}

	c.scheduler.Cancel(id)
	return view, nil
}

// transition loads the aggregate, applies the domain move and persists it
// with a compare-and-set on the original status. A concurrent change loses
// the race and surfaces as an invalid transition.
func (c *reservationCommandsImpl) transition(
	ctx context.Context,
	id uuid.UUID,
	move func(res *reservation.Reservation) error,
) (*queries.ReservationView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByID(ctx, tx.DB(), id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		from := res.Status()
		if err := move(res); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}

		moved, err := tx.Reservations().UpdateStatus(ctx, tx.DB(), id, from, res.Status())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !moved {
			return ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := c.queries.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (c *reservationCommandsImpl) checkDailyLimit(ctx context.Context, tx shared.Tx, now time.Time, userID uuid.UUID) error {
	limit := c.venue.DailyReservationLimit
	if limit <= 0 {
		return nil
	}

	y, m, d := now.UTC().Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	var scope *uuid.UUID
	if c.venue.ReservationLimitScope == "per_user" {
		scope = &userID
	}

	count, err := tx.Reservations().CountActiveCreatedBetween(ctx, tx.DB(), from, to, scope)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if count >= limit {
		return ErrDailyLimitReached
	}
	return nil
}

func bookingAlertText(view *queries.ReservationView, confirmed bool) string {
	state := "pending review"
	if confirmed {
		state = "auto-confirmed"
	}
	return fmt.Sprintf(
		"New reservation (%s)\nTable: %s\nGuest: %s (%s)\nParty: %d\nStarts: %s",
		state, view.TableName, view.Name, view.Phone, view.PartySize,
		view.StartsAt.Format(time.RFC3339),
	)
}
