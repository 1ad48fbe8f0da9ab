package governancetoken

import (
	"log/slog"

	httpadapter "securevote/contexts/governance/governance-token/adapters/http"
	"securevote/contexts/governance/governance-token/application"
	"securevote/contexts/governance/governance-token/domain/entities"
	"securevote/contexts/governance/governance-token/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
}

type Dependencies struct {
	Ledger      ports.LedgerRepository
	Custody     ports.CustodyRepository
	Transactor  ports.Transactor
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Token       entities.Token
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:    deps.Ledger,
		Custody: deps.Custody,
		Tx:      deps.Transactor,
		Outbox:  deps.Outbox,
		Clock:   deps.Clock,
		IDGen:   deps.IDGenerator,
		Token:   deps.Token,
		Logger:  deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}
