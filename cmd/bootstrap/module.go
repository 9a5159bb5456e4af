package bootstrap

import (
	"tablebook/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	NotifierModule,
	components.PersistenceModule,
	components.UseCaseModule,
	SchedulerModule,
	components.HandlerModule,
)
