package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	votingentities "securevote/contexts/governance/voting-engine/domain/entities"
	"securevote/internal/app/deployment"
	"securevote/internal/platform/chainstate/memory"
	chainpostgres "securevote/internal/platform/chainstate/postgres"
	"securevote/internal/platform/config"
	"securevote/internal/platform/db"
	"securevote/internal/platform/messaging"
	"securevote/internal/platform/metrics"
)

// runtime is the state shared by both processes: one deployment over the
// configured store, its metrics and everything that needs closing.
type runtime struct {
	cfg        config.Config
	deployment *deployment.Deployment
	metrics    *metrics.Registry
	closers    []closer
	logger     *slog.Logger
}

type closer struct {
	name string
	fn   func() error
}

// NewLogger builds the process logger at the configured level.
func NewLogger(cfg config.Config, process string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", cfg.ServiceName, "process", process)
}

// buildRuntime opens the store, wires the deployment and applies genesis.
// withPublisher is set for the process that runs the outbox relay.
func buildRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger, withPublisher bool) (*runtime, error) {
	rt := &runtime{
		cfg:     cfg,
		metrics: metrics.New(),
		logger:  logger,
	}
	opts := deployment.Options{
		RelayMetrics:  rt.metrics,
		KeeperMetrics: rt.metrics,
		Logger:        logger,
	}

	switch cfg.StoreBackend {
	case config.StorePostgres:
		pg, err := db.Connect(ctx, cfg.PostgresDSN, db.PoolOptions{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		}, logger)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, closer{name: "postgres", fn: pg.Close})
		repo := chainpostgres.NewRepository(pg.DB, cfg.LockKey, logger)
		if cfg.AutoMigrate {
			if err := repo.AutoMigrate(ctx); err != nil {
				_ = rt.close()
				return nil, err
			}
		}
		opts.Store = repo
		opts.Clock = chainpostgres.SystemClock{}
		opts.IDGenerator = chainpostgres.UUIDGenerator{}
	default:
		store := memory.NewStore()
		opts.Store = store
		opts.Clock = store
		opts.IDGenerator = store
	}

	if withPublisher {
		publisher, err := rt.buildPublisher(ctx)
		if err != nil {
			_ = rt.close()
			return nil, err
		}
		opts.Publisher = publisher
	}

	d, err := deployment.New(settingsFromConfig(cfg), opts)
	if err != nil {
		_ = rt.close()
		return nil, err
	}
	if err := d.Genesis(ctx); err != nil {
		_ = rt.close()
		return nil, err
	}
	rt.deployment = d
	return rt, nil
}

// buildPublisher always feeds the local bus, whose subscriber counts events,
// and adds every configured external broker.
func (rt *runtime) buildPublisher(ctx context.Context) (messaging.Publisher, error) {
	bus := messaging.NewBus(rt.logger)
	if err := bus.SubscribeAll(ctx, "securevote-metrics", rt.metrics.ObserveEvent); err != nil {
		return nil, fmt.Errorf("subscribe event metrics: %w", err)
	}
	fanout := messaging.Fanout{bus}

	if rt.cfg.NATSURL != "" {
		nats, err := messaging.NewNATSPublisher(rt.cfg.NATSURL, rt.logger)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, closer{name: "nats", fn: nats.Close})
		fanout = append(fanout, nats)
	}
	if len(rt.cfg.KafkaBrokers) > 0 {
		kafka, err := messaging.NewKafkaPublisher(rt.cfg.KafkaBrokers, rt.logger)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, closer{name: "kafka", fn: kafka.Close})
		fanout = append(fanout, kafka)
	}
	return fanout, nil
}

// close releases resources in reverse order of acquisition.
func (rt *runtime) close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		c := rt.closers[i]
		if err := c.fn(); err != nil {
			rt.logger.Error("resource close failed",
				"event", "bootstrap_close_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"resource", c.name,
				"error", err.Error(),
			)
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}

func settingsFromConfig(cfg config.Config) deployment.Settings {
	return deployment.Settings{
		Deployer:          cfg.Chain.Deployer,
		TokenName:         cfg.Chain.TokenName,
		TokenSymbol:       cfg.Chain.TokenSymbol,
		ExchangeRate:      cfg.Chain.ExchangeRate,
		InitialSupply:     cfg.Chain.InitialSupply,
		FaucetClaimAmount: cfg.Chain.FaucetClaimAmount,
		FaucetFunding:     cfg.Chain.FaucetFunding,
		Governance: votingentities.Params{
			CreationFee:       cfg.Governance.CreationFee,
			ProposalThreshold: cfg.Governance.ProposalThreshold,
			MinQuorum:         cfg.Governance.MinQuorum,
			VotingPeriod:      cfg.Governance.VotingPeriod,
			ExtensionWindow:   cfg.Governance.ExtensionWindow,
			ExtensionPeriod:   cfg.Governance.ExtensionPeriod,
			MaxExtension:      cfg.Governance.MaxExtension,
			MinGasExecute:     cfg.Governance.MinGasExecute,
		},
		RelayBatchSize: cfg.RelayBatchSize,
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
