package deployment

import (
	"context"
	"errors"
	"log/slog"

	governancetoken "securevote/contexts/governance/governance-token"
	tokenentities "securevote/contexts/governance/governance-token/domain/entities"
	tokenports "securevote/contexts/governance/governance-token/ports"
	tokenfaucet "securevote/contexts/governance/token-faucet"
	faucetentities "securevote/contexts/governance/token-faucet/domain/entities"
	faucetports "securevote/contexts/governance/token-faucet/ports"
	"securevote/contexts/governance/treasury"
	treasuryentities "securevote/contexts/governance/treasury/domain/entities"
	votingengine "securevote/contexts/governance/voting-engine"
	"securevote/contexts/governance/voting-engine/application/commands"
	votingentities "securevote/contexts/governance/voting-engine/domain/entities"
	votingports "securevote/contexts/governance/voting-engine/ports"
	"securevote/internal/platform/chainstate/memory"

	"github.com/ethereum/go-ethereum/common"
)

// Store is every repository port a deployment persists through. Both
// chainstate backends satisfy it.
type Store interface {
	tokenports.LedgerRepository
	tokenports.CustodyRepository
	faucetports.ClaimRepository
	votingports.ProposalRepository
	votingports.VoteRepository
	votingports.SettingsRepository
	votingports.OutboxWriter
	votingports.OutboxRepository
	votingports.Transactor
}

type Options struct {
	Store         Store
	Clock         votingports.Clock
	IDGenerator   votingports.IDGenerator
	Publisher     votingports.EventPublisher
	RelayMetrics  votingports.RelayMetrics
	KeeperMetrics votingports.KeeperMetrics
	Logger        *slog.Logger
}

// Deployment is one governance instance: token, engine, treasury and faucet
// sharing a single world state.
type Deployment struct {
	Addresses  Addresses
	Settings   Settings
	Token      governancetoken.Module
	Faucet     tokenfaucet.Module
	Treasury   treasury.Module
	Governance votingengine.Module

	store  Store
	logger *slog.Logger
}

func New(settings Settings, opts Options) (*Deployment, error) {
	if opts.Store == nil {
		return nil, errors.New("deployment store is required")
	}
	if opts.Clock == nil || opts.IDGenerator == nil {
		return nil, errors.New("deployment clock and id generator are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addrs := DeriveAddresses(settings.Deployer)

	tokenModule := governancetoken.NewModule(governancetoken.Dependencies{
		Ledger:      opts.Store,
		Custody:     opts.Store,
		Transactor:  opts.Store,
		Outbox:      opts.Store,
		Clock:       opts.Clock,
		IDGenerator: opts.IDGenerator,
		Token: tokenentities.Token{
			Address:      addrs.Token,
			Name:         settings.TokenName,
			Symbol:       settings.TokenSymbol,
			Decimals:     18,
			ExchangeRate: settings.ExchangeRate,
		},
		Logger: logger,
	})
	ledger := tokenLedger{token: tokenModule.Service}

	treasuryModule := treasury.NewModule(treasury.Dependencies{
		Custody:     opts.Store,
		Transactor:  opts.Store,
		Outbox:      opts.Store,
		Clock:       opts.Clock,
		IDGenerator: opts.IDGenerator,
		Treasury: treasuryentities.Treasury{
			Address: addrs.Treasury,
			Owner:   addrs.Deployer,
		},
		Logger: logger,
	})

	faucetModule := tokenfaucet.NewModule(tokenfaucet.Dependencies{
		Claims:      opts.Store,
		Ledger:      ledger,
		Transactor:  opts.Store,
		Outbox:      opts.Store,
		Clock:       opts.Clock,
		IDGenerator: opts.IDGenerator,
		Faucet: faucetentities.Faucet{
			Address:     addrs.Faucet,
			ClaimAmount: settings.FaucetClaimAmount,
		},
		Logger: logger,
	})

	governanceModule := votingengine.NewModule(votingengine.Dependencies{
		Proposals:     opts.Store,
		Votes:         opts.Store,
		Settings:      opts.Store,
		Ledger:        ledger,
		Fees:          feeCollector{treasury: treasuryModule.Service},
		Transactor:    opts.Store,
		Outbox:        opts.Store,
		OutboxReader:  opts.Store,
		Publisher:     opts.Publisher,
		Clock:         opts.Clock,
		IDGenerator:   opts.IDGenerator,
		RelayMetrics:  opts.RelayMetrics,
		KeeperMetrics: opts.KeeperMetrics,
		Engine: votingentities.Engine{
			Address: addrs.Engine,
			Owner:   addrs.Deployer,
		},
		Params:         settings.Governance,
		KeeperCaller:   addrs.Deployer,
		RelayBatchSize: settings.RelayBatchSize,
		Logger:         logger,
	})

	return &Deployment{
		Addresses:  addrs,
		Settings:   settings,
		Token:      tokenModule,
		Faucet:     faucetModule,
		Treasury:   treasuryModule,
		Governance: governanceModule,
		store:      opts.Store,
		logger:     logger,
	}, nil
}

// NewInMemory builds a deployment over a fresh in-memory world state.
func NewInMemory(settings Settings, publisher votingports.EventPublisher, logger *slog.Logger) (*Deployment, *memory.Store, error) {
	store := memory.NewStore()
	d, err := New(settings, Options{
		Store:       store,
		Clock:       store,
		IDGenerator: store,
		Publisher:   publisher,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return d, store, nil
}

// Genesis replays the deployment scripts: mint the initial supply to the
// deployer, link the treasury and fund the faucet. It runs once: the treasury
// link is written in the same transaction, so a store with a linked treasury
// is left untouched whatever the configured supply.
func (d *Deployment) Genesis(ctx context.Context) error {
	err := d.store.WithinTx(ctx, func(ctx context.Context) error {
		treasury, err := d.store.GetTreasury(ctx)
		if err != nil {
			return err
		}
		if treasury != (common.Address{}) {
			return errGenesisDone
		}
		if !d.Settings.InitialSupply.IsZero() {
			if _, err := d.Token.Service.Mint(ctx, d.Addresses.Deployer, d.Settings.InitialSupply); err != nil {
				return err
			}
		}
		if err := d.Governance.Admin.SetTreasury(ctx, commands.SetTreasuryCommand{
			Caller:   d.Addresses.Deployer,
			Treasury: d.Addresses.Treasury,
		}); err != nil {
			return err
		}
		if d.Settings.FaucetFunding.IsZero() {
			return nil
		}
		return tokenLedger{token: d.Token.Service}.Transfer(ctx, d.Addresses.Deployer, d.Addresses.Faucet, d.Settings.FaucetFunding)
	})
	if errors.Is(err, errGenesisDone) {
		d.logger.Info("deployment genesis already applied",
			"event", "deployment_genesis_skipped",
			"module", "internal/app/deployment",
			"layer", "platform",
		)
		return nil
	}
	if err != nil {
		d.logger.Error("deployment genesis failed",
			"event", "deployment_genesis_failed",
			"module", "internal/app/deployment",
			"layer", "platform",
			"error", err.Error(),
		)
		return err
	}
	d.logger.Info("deployment genesis applied",
		"event", "deployment_genesis_applied",
		"module", "internal/app/deployment",
		"layer", "platform",
		"token", d.Addresses.Token.Hex(),
		"engine", d.Addresses.Engine.Hex(),
		"treasury", d.Addresses.Treasury.Hex(),
		"faucet", d.Addresses.Faucet.Hex(),
	)
	return nil
}

var errGenesisDone = errors.New("genesis already applied")
