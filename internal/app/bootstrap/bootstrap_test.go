package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"securevote/contexts/governance/voting-engine/application/commands"
	"securevote/internal/app/deployment"
	"securevote/internal/platform/config"
	"securevote/internal/platform/ratelimit"
	"securevote/internal/shared/units"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	v, err := config.NewViper(nil)
	require.NoError(t, err)
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNormalizeAddr(t *testing.T) {
	tests := map[string]string{
		"":      ":8080",
		"9000":  ":9000",
		":7000": ":7000",
		" 81 ":  ":81",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeAddr(in), "input %q", in)
	}
}

func TestNewLoggerHonoursLevel(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{ServiceName: "securevote", LogLevel: "debug"}
	assert.True(t, NewLogger(cfg, "api").Enabled(ctx, slog.LevelDebug))

	cfg.LogLevel = "warn"
	logger := NewLogger(cfg, "api")
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.True(t, logger.Enabled(ctx, slog.LevelWarn))

	cfg.LogLevel = "unknown"
	assert.True(t, NewLogger(cfg, "api").Enabled(ctx, slog.LevelInfo))
}

func TestSettingsFromDefaultConfigMatchDeploymentDefaults(t *testing.T) {
	cfg := defaultConfig(t)
	assert.Equal(t, deployment.DefaultSettings(), settingsFromConfig(cfg))
}

func TestBuildAPIWithMemoryStoreRunsWorkersInProcess(t *testing.T) {
	cfg := defaultConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app, err := BuildAPI(ctx, cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Close()) })
	require.NotNil(t, app.loop)

	d := app.runtime.deployment
	supply, err := d.Token.Service.TotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, units.MustParseUnits("1000000"), supply)

	_, err = d.Governance.Proposals.CreateProposal(ctx, commands.CreateProposalCommand{
		Proposer:    d.Addresses.Deployer,
		Description: "relay me",
		Value:       units.MustParseUnits("0.01"),
	})
	require.NoError(t, err)

	app.loop.runRelay(ctx)

	scrape := func() string {
		rr := httptest.NewRecorder()
		app.runtime.metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		return rr.Body.String()
	}
	assert.Contains(t, scrape(), `securevote_outbox_published_total{event_type="governance.proposal_created"} 1`)
	require.Eventually(t, func() bool {
		return strings.Contains(scrape(), `securevote_governance_events_total{event_type="governance.proposal_created"} 1`)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFaucetLimiterFallsBackToMemory(t *testing.T) {
	cfg := defaultConfig(t)
	rt := &runtime{cfg: cfg, logger: discardLogger()}

	limiter, err := rt.buildFaucetLimiter()
	require.NoError(t, err)
	assert.IsType(t, &ratelimit.Memory{}, limiter)

	rt.cfg.FaucetRateLimit = 0
	limiter, err = rt.buildFaucetLimiter()
	require.NoError(t, err)
	assert.Nil(t, limiter)
}

func TestWorkerLoopStopsWhenContextEnds(t *testing.T) {
	cfg := defaultConfig(t)
	rt, err := buildRuntime(context.Background(), cfg, discardLogger(), true)
	require.NoError(t, err)

	loop := rt.newWorkerLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(ctx)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker loop did not stop")
	}
}
