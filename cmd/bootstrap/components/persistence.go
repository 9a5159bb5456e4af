package components

import (
	"tablebook/internal/infra/db"
	"tablebook/internal/infra/readstore"
	"tablebook/internal/infra/uow"
	"tablebook/internal/usecase/queries"
	"tablebook/internal/usecase/reminder"
	"tablebook/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationViewRepo)),
			fx.As(new(reminder.ReservationReads)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
