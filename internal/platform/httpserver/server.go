package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	governancetoken "securevote/contexts/governance/governance-token"
	tokenfaucet "securevote/contexts/governance/token-faucet"
	"securevote/contexts/governance/treasury"
	votingengine "securevote/contexts/governance/voting-engine"
	_ "securevote/internal/platform/httpserver/docs"
	"securevote/internal/platform/ratelimit"
	"securevote/internal/shared/chain"

	"github.com/ethereum/go-ethereum/common"
	httpSwagger "github.com/swaggo/http-swagger"
)

// CallerHeader carries the address a mutating request acts as.
const CallerHeader = "X-Caller-Address"

const maxBodyBytes = 1 << 20

// Modules are the governance modules of the deployment the server fronts.
type Modules struct {
	Token      governancetoken.Module
	Faucet     tokenfaucet.Module
	Treasury   treasury.Module
	Governance votingengine.Module
}

type Metrics interface {
	ObserveHTTP(route string, method string, status int, elapsed time.Duration)
	RateLimited(route string)
	Handler() http.Handler
}

type Options struct {
	Addr   string
	Logger *slog.Logger
	// Metrics is optional; /metrics is only mounted when set.
	Metrics Metrics
	// FaucetLimiter is optional and keyed by client IP.
	FaucetLimiter ratelimit.Limiter
}

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	modules       Modules
	metrics       Metrics
	faucetLimiter ratelimit.Limiter
}

func New(modules Modules, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := opts.Addr
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		modules:       modules,
		metrics:       opts.Metrics,
		faucetLimiter: opts.FaucetLimiter,
	}
	s.registerRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting",
			"event", "http_server_starting",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"addr", s.addr,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.handle("GET /v1/token", s.handleToken)
	s.handle("GET /v1/token/balances/{address}", s.handleTokenBalance)
	s.handle("POST /v1/token/transfers", s.handleTokenTransfer)
	s.handle("POST /v1/token/transfers/delegated", s.handleTokenTransferFrom)
	s.handle("POST /v1/token/approvals", s.handleTokenApprove)
	s.handle("GET /v1/token/allowances/{owner}/{spender}", s.handleTokenAllowance)
	s.handle("POST /v1/token/purchases", s.handleTokenPurchase)

	s.handle("GET /v1/faucet", s.handleFaucet)
	s.handle("GET /v1/faucet/claims/{address}", s.handleFaucetClaimStatus)
	s.handle("POST /v1/faucet/claims", s.rateLimited("POST /v1/faucet/claims", s.faucetLimiter, s.handleFaucetClaim))

	s.handle("GET /v1/treasury", s.handleTreasury)
	s.handle("POST /v1/treasury/withdrawals", s.handleTreasuryWithdraw)

	s.handle("GET /v1/governance/params", s.handleGovernanceParams)
	s.handle("PUT /v1/governance/treasury", s.handleGovernanceSetTreasury)
	s.handle("GET /v1/governance/proposals", s.handleListProposals)
	s.handle("POST /v1/governance/proposals", s.handleCreateProposal)
	s.handle("GET /v1/governance/proposals/{id}", s.handleGetProposal)
	s.handle("GET /v1/governance/proposals/{id}/status", s.handleProposalStatus)
	s.handle("POST /v1/governance/proposals/{id}/votes", s.handleVote)
	s.handle("GET /v1/governance/proposals/{id}/votes/{address}", s.handleVoteStatus)
	s.handle("POST /v1/governance/proposals/{id}/execution", s.handleExecuteProposal)
}

// handle registers fn and records request metrics under the route pattern.
func (s *Server) handle(pattern string, fn http.HandlerFunc) {
	if s.metrics == nil {
		s.mux.HandleFunc(pattern, fn)
		return
	}
	method, _, _ := strings.Cut(pattern, " ")
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		fn(rec, r)
		s.metrics.ObserveHTTP(pattern, method, rec.status, time.Since(started))
	})
}

func (s *Server) rateLimited(route string, limiter ratelimit.Limiter, fn http.HandlerFunc) http.HandlerFunc {
	if limiter == nil {
		return fn
	}
	return func(w http.ResponseWriter, r *http.Request) {
		allowed, err := limiter.Allow(r.Context(), resolveClientIP(r))
		if err != nil {
			// Limiter outages do not block claims; the faucet's own
			// once-per-address rule still holds.
			s.logger.Error("rate limiter unavailable",
				"event", "http_rate_limit_failed",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"route", route,
				"error", err.Error(),
			)
			fn(w, r)
			return
		}
		if !allowed {
			if s.metrics != nil {
				s.metrics.RateLimited(route)
			}
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, retry later")
			return
		}
		fn(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requireCaller resolves the acting address or writes the rejection.
func requireCaller(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	raw := strings.TrimSpace(r.Header.Get(CallerHeader))
	if raw == "" {
		writeError(w, http.StatusUnauthorized, "missing_caller", CallerHeader+" header is required")
		return common.Address{}, false
	}
	caller, err := chain.ParseAddress(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_caller", CallerHeader+" must be a hex address")
		return common.Address{}, false
	}
	return caller, true
}

// decodeJSON decodes the request body into dst. An empty body is accepted
// only when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func resolveClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
