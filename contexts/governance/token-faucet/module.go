package tokenfaucet

import (
	"log/slog"

	httpadapter "securevote/contexts/governance/token-faucet/adapters/http"
	"securevote/contexts/governance/token-faucet/application"
	"securevote/contexts/governance/token-faucet/domain/entities"
	"securevote/contexts/governance/token-faucet/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
}

type Dependencies struct {
	Claims      ports.ClaimRepository
	Ledger      ports.TokenLedger
	Transactor  ports.Transactor
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Faucet      entities.Faucet
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Claims: deps.Claims,
		Ledger: deps.Ledger,
		Tx:     deps.Transactor,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGenerator,
		Faucet: deps.Faucet,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}
