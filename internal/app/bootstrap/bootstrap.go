package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"securevote/contexts/governance/voting-engine/application/workers"
	"securevote/internal/platform/config"
	"securevote/internal/platform/httpserver"
	"securevote/internal/platform/ratelimit"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	runtime *runtime
	server  *httpserver.Server
	// loop is set for the memory backend, whose state lives in this process.
	loop   *workerLoop
	logger *slog.Logger
}

type WorkerApp struct {
	runtime     *runtime
	loop        *workerLoop
	metricsAddr string
	logger      *slog.Logger
}

func BuildAPI(ctx context.Context, cfg config.Config, logger *slog.Logger) (*APIApp, error) {
	if logger == nil {
		logger = slog.Default()
	}
	inProcessWorkers := cfg.StoreBackend != config.StorePostgres
	rt, err := buildRuntime(ctx, cfg, logger, inProcessWorkers)
	if err != nil {
		return nil, err
	}

	limiter, err := rt.buildFaucetLimiter()
	if err != nil {
		_ = rt.close()
		return nil, err
	}

	d := rt.deployment
	server := httpserver.New(httpserver.Modules{
		Token:      d.Token,
		Faucet:     d.Faucet,
		Treasury:   d.Treasury,
		Governance: d.Governance,
	}, httpserver.Options{
		Addr:          normalizeAddr(cfg.HTTPPort),
		Logger:        logger,
		Metrics:       rt.metrics,
		FaucetLimiter: limiter,
	})

	app := &APIApp{
		runtime: rt,
		server:  server,
		logger:  logger,
	}
	if inProcessWorkers {
		app.loop = rt.newWorkerLoop()
	}
	return app, nil
}

func BuildWorker(ctx context.Context, cfg config.Config, logger *slog.Logger) (*WorkerApp, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.StoreBackend != config.StorePostgres {
		logger.Warn("worker runs against a private in-memory store",
			"event", "bootstrap_worker_memory_store",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	rt, err := buildRuntime(ctx, cfg, logger, true)
	if err != nil {
		return nil, err
	}
	return &WorkerApp{
		runtime:     rt,
		loop:        rt.newWorkerLoop(),
		metricsAddr: normalizeAddr(cfg.MetricsPort),
		logger:      logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"store", a.runtime.cfg.StoreBackend,
		"in_process_workers", a.loop != nil,
	)
	if a.loop == nil {
		return a.server.Run(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.loop.Run(ctx)
	}()
	err := a.server.Run(ctx)
	cancel()
	<-done
	return err
}

func (a *APIApp) Close() error {
	return a.runtime.close()
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"relay_interval", w.loop.relayInterval.String(),
		"keeper_interval", w.loop.keeperInterval.String(),
		"metrics_addr", w.metricsAddr,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	srv := &http.Server{
		Addr:              w.metricsAddr,
		Handler:           w.runtime.metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			cancel()
		}
	}()

	w.loop.Run(ctx)

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

func (w *WorkerApp) Close() error {
	return w.runtime.close()
}

// buildFaucetLimiter prefers the shared redis window so every API replica
// counts against the same budget.
func (rt *runtime) buildFaucetLimiter() (ratelimit.Limiter, error) {
	if rt.cfg.FaucetRateLimit <= 0 {
		return nil, nil
	}
	if rt.cfg.RedisURL == "" {
		return ratelimit.NewMemory(rt.cfg.FaucetRateLimit, rt.cfg.FaucetRateWindow), nil
	}
	client, err := ratelimit.Connect(rt.cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	limiter := ratelimit.NewRedis(client, rt.cfg.ServiceName+":faucet", rt.cfg.FaucetRateLimit, rt.cfg.FaucetRateWindow)
	rt.closers = append(rt.closers, closer{name: "redis", fn: limiter.Close})
	return limiter, nil
}

// workerLoop ticks the outbox relay and the execution keeper.
type workerLoop struct {
	relay          workers.OutboxRelay
	keeper         workers.ExecutionKeeper
	relayInterval  time.Duration
	keeperInterval time.Duration
	logger         *slog.Logger
}

func (rt *runtime) newWorkerLoop() *workerLoop {
	return &workerLoop{
		relay:          rt.deployment.Governance.OutboxRelay,
		keeper:         rt.deployment.Governance.ExecutionKeeper,
		relayInterval:  rt.cfg.RelayInterval,
		keeperInterval: rt.cfg.KeeperInterval,
		logger:         rt.logger,
	}
}

// Run blocks until ctx is done. RunOnce logs its own failures and the next
// tick retries, so a broker outage does not stop the process.
func (l *workerLoop) Run(ctx context.Context) {
	relayTicker := time.NewTicker(l.relayInterval)
	defer relayTicker.Stop()
	keeperTicker := time.NewTicker(l.keeperInterval)
	defer keeperTicker.Stop()

	l.runKeeper(ctx)
	l.runRelay(ctx)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("worker loop stopped",
				"event", "bootstrap_worker_loop_stopped",
				"module", "internal/app/bootstrap",
				"layer", "worker",
			)
			return
		case <-keeperTicker.C:
			l.runKeeper(ctx)
			// Executions append outbox rows; publish them without waiting a tick.
			l.runRelay(ctx)
		case <-relayTicker.C:
			l.runRelay(ctx)
		}
	}
}

func (l *workerLoop) runRelay(ctx context.Context) {
	_ = l.relay.RunOnce(ctx)
}

func (l *workerLoop) runKeeper(ctx context.Context) {
	_ = l.keeper.RunOnce(ctx)
}
