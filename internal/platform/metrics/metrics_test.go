package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	eventsv1 "securevote/contracts/events/v1"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersTrackWorkerOutcomes(t *testing.T) {
	reg := New()

	reg.OutboxPublished(eventsv1.EventGovernanceVoted)
	reg.OutboxPublished(eventsv1.EventGovernanceVoted)
	reg.OutboxPublishFailed(eventsv1.EventTokenTransfer)
	reg.ProposalAutoExecuted()
	reg.ProposalAutoExecuteFailed()
	require.NoError(t, reg.ObserveEvent(context.Background(), eventsv1.Envelope{EventType: eventsv1.EventGovernanceProposalCreated}))

	assert.Equal(t, 2.0, testutil.ToFloat64(reg.outboxRelayed.WithLabelValues(eventsv1.EventGovernanceVoted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.outboxFailed.WithLabelValues(eventsv1.EventTokenTransfer)))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.keeperExecuted))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.keeperFailed))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.eventsObserved.WithLabelValues(eventsv1.EventGovernanceProposalCreated)))
}

func TestHandlerExposesHTTPMetrics(t *testing.T) {
	reg := New()
	reg.ObserveHTTP("POST /v1/faucet/claims", http.MethodPost, http.StatusOK, 15*time.Millisecond)
	reg.RateLimited("POST /v1/faucet/claims")

	rr := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `securevote_http_requests_total{method="POST",route="POST /v1/faucet/claims",status="200"} 1`)
	assert.Contains(t, body, `securevote_http_rate_limited_total{route="POST /v1/faucet/claims"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
