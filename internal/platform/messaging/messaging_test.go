package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	eventsv1 "securevote/contracts/events/v1"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnvelope(eventType string) eventsv1.Envelope {
	return eventsv1.Envelope{
		EventID:          "evt-1",
		EventType:        eventType,
		OccurredAt:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		SourceService:    "voting-engine",
		SchemaVersion:    1,
		PartitionKeyPath: "proposal_id",
		PartitionKey:     "1",
		Data:             json.RawMessage(`{"proposal_id":1}`),
	}
}

func TestBusDeliversToTopicSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := NewBus(nil)

	received := make(chan eventsv1.Envelope, 1)
	require.NoError(t, bus.Subscribe(ctx, eventsv1.EventGovernanceVoted, "test", func(_ context.Context, event eventsv1.Envelope) error {
		received <- event
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, eventsv1.EventGovernanceProposalCreated, testEnvelope(eventsv1.EventGovernanceProposalCreated)))
	require.NoError(t, bus.Publish(ctx, eventsv1.EventGovernanceVoted, testEnvelope(eventsv1.EventGovernanceVoted)))

	select {
	case event := <-received:
		assert.Equal(t, eventsv1.EventGovernanceVoted, event.EventType)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestBusSubscribeAllAndUnsubscribeOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := NewBus(nil)

	var mu sync.Mutex
	var seen []string
	require.NoError(t, bus.SubscribeAll(ctx, "metrics", func(_ context.Context, event eventsv1.Envelope) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, event.EventType)
		return nil
	}))
	for _, eventType := range eventsv1.AllEventTypes() {
		require.Equal(t, 1, bus.subscriberCount(eventType))
	}

	require.NoError(t, bus.Publish(ctx, eventsv1.EventTokenTransfer, testEnvelope(eventsv1.EventTokenTransfer)))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool {
		return bus.subscriberCount(eventsv1.EventTokenTransfer) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestBusPublishWithoutSubscribersSucceeds(t *testing.T) {
	require.NoError(t, NewBus(nil).Publish(context.Background(), "none", testEnvelope("none")))
}

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherKeysByPartition(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewKafkaPublisherWithWriter(writer, nil)

	event := testEnvelope(eventsv1.EventGovernanceProposalCreated)
	require.NoError(t, publisher.Publish(context.Background(), event.EventType, event))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, eventsv1.EventGovernanceProposalCreated, msg.Topic)
	assert.Equal(t, []byte("1"), msg.Key)
	assert.Equal(t, event.OccurredAt, msg.Time)

	var decoded eventsv1.Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.JSONEq(t, `{"proposal_id":1}`, string(decoded.Data))

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisherWrapsWriteErrors(t *testing.T) {
	broker := errors.New("leader not available")
	publisher := NewKafkaPublisherWithWriter(&recordingWriter{err: broker}, nil)

	err := publisher.Publish(context.Background(), "token.transfer", testEnvelope("token.transfer"))
	require.ErrorIs(t, err, broker)
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, nil)
	require.Error(t, err)
}

type countingPublisher struct {
	calls int
	err   error
}

func (p *countingPublisher) Publish(context.Context, string, eventsv1.Envelope) error {
	p.calls++
	return p.err
}

func TestFanoutStopsAtFirstFailure(t *testing.T) {
	first := &countingPublisher{err: errors.New("down")}
	second := &countingPublisher{}

	err := Fanout{first, second}.Publish(context.Background(), "t", testEnvelope("t"))
	require.Error(t, err)
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls)

	first.err = nil
	require.NoError(t, Fanout{first, second}.Publish(context.Background(), "t", testEnvelope("t")))
	assert.Equal(t, 1, second.calls)
}
