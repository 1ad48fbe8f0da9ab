package votingengine

import (
	"log/slog"

	httpadapter "securevote/contexts/governance/voting-engine/adapters/http"
	"securevote/contexts/governance/voting-engine/application/commands"
	"securevote/contexts/governance/voting-engine/application/queries"
	"securevote/contexts/governance/voting-engine/application/workers"
	"securevote/contexts/governance/voting-engine/domain/entities"
	"securevote/contexts/governance/voting-engine/ports"

	"github.com/ethereum/go-ethereum/common"
)

type Module struct {
	Handler         httpadapter.Handler
	Proposals       commands.ProposalUseCase
	Votes           commands.VoteUseCase
	Admin           commands.AdminUseCase
	Queries         queries.ProposalQueryUseCase
	OutboxRelay     workers.OutboxRelay
	ExecutionKeeper workers.ExecutionKeeper
}

type Dependencies struct {
	Proposals      ports.ProposalRepository
	Votes          ports.VoteRepository
	Settings       ports.SettingsRepository
	Ledger         ports.TokenLedger
	Fees           ports.FeeCollector
	Transactor     ports.Transactor
	Outbox         ports.OutboxWriter
	OutboxReader   ports.OutboxRepository
	Publisher      ports.EventPublisher
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	RelayMetrics   ports.RelayMetrics
	KeeperMetrics  ports.KeeperMetrics
	Engine         entities.Engine
	Params         entities.Params
	KeeperCaller   common.Address
	RelayBatchSize int
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	proposals := commands.ProposalUseCase{
		Proposals: deps.Proposals,
		Settings:  deps.Settings,
		Ledger:    deps.Ledger,
		Fees:      deps.Fees,
		Tx:        deps.Transactor,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Engine:    deps.Engine,
		Params:    deps.Params,
		Logger:    deps.Logger,
	}
	votes := commands.VoteUseCase{
		Proposals: deps.Proposals,
		Votes:     deps.Votes,
		Ledger:    deps.Ledger,
		Tx:        deps.Transactor,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Params:    deps.Params,
		Logger:    deps.Logger,
	}
	admin := commands.AdminUseCase{
		Proposals: deps.Proposals,
		Settings:  deps.Settings,
		Fees:      deps.Fees,
		Tx:        deps.Transactor,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Engine:    deps.Engine,
		Logger:    deps.Logger,
	}
	query := queries.ProposalQueryUseCase{
		Proposals: deps.Proposals,
		Votes:     deps.Votes,
		Settings:  deps.Settings,
		Clock:     deps.Clock,
		Engine:    deps.Engine,
		Params:    deps.Params,
	}

	return Module{
		Handler: httpadapter.Handler{
			Proposals: proposals,
			Votes:     votes,
			Admin:     admin,
			Queries:   query,
			Logger:    deps.Logger,
		},
		Proposals: proposals,
		Votes:     votes,
		Admin:     admin,
		Queries:   query,
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.OutboxReader,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Metrics:   deps.RelayMetrics,
			BatchSize: deps.RelayBatchSize,
			Logger:    deps.Logger,
		},
		ExecutionKeeper: workers.ExecutionKeeper{
			Proposals: deps.Proposals,
			Executor:  proposals,
			Clock:     deps.Clock,
			Metrics:   deps.KeeperMetrics,
			Params:    deps.Params,
			Caller:    deps.KeeperCaller,
			BatchSize: deps.RelayBatchSize,
			Logger:    deps.Logger,
		},
	}
}
