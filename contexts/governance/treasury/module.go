package treasury

import (
	"log/slog"

	httpadapter "securevote/contexts/governance/treasury/adapters/http"
	"securevote/contexts/governance/treasury/application"
	"securevote/contexts/governance/treasury/domain/entities"
	"securevote/contexts/governance/treasury/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
}

type Dependencies struct {
	Custody     ports.CustodyRepository
	Transactor  ports.Transactor
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Treasury    entities.Treasury
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Custody:  deps.Custody,
		Tx:       deps.Transactor,
		Outbox:   deps.Outbox,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		Treasury: deps.Treasury,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}
