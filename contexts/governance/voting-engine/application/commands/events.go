package commands

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"securevote/contexts/governance/voting-engine/domain/entities"
	"securevote/contexts/governance/voting-engine/ports"
)

func newGovernanceEnvelope(
	eventID string,
	eventType string,
	partitionKeyPath string,
	partitionKey string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "voting-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: partitionKeyPath,
		PartitionKey:     partitionKey,
		Data:             payload,
	}, nil
}

// eventSink bundles what every command needs to append outbox rows.
type eventSink struct {
	outbox ports.OutboxWriter
	idgen  ports.IDGenerator
}

// proposal-scoped events are partitioned by proposal id so consumers see a
// proposal's history in order.
func (s eventSink) appendProposalEvent(
	ctx context.Context,
	eventType string,
	proposalID uint64,
	occurredAt time.Time,
	data map[string]any,
) error {
	return s.append(ctx, eventType, "proposal_id", strconv.FormatUint(proposalID, 10), occurredAt, data)
}

func (s eventSink) append(
	ctx context.Context,
	eventType string,
	partitionKeyPath string,
	partitionKey string,
	occurredAt time.Time,
	data map[string]any,
) error {
	if s.outbox == nil {
		return nil
	}
	eventID, err := s.idgen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newGovernanceEnvelope(eventID, eventType, partitionKeyPath, partitionKey, occurredAt, data)
	if err != nil {
		return err
	}
	return s.outbox.AppendOutbox(ctx, envelope)
}

func proposalCreatedData(p entities.Proposal) map[string]any {
	return map[string]any{
		"proposal_id":  p.ID,
		"proposer":     p.Proposer.Hex(),
		"description":  p.Description,
		"deadline":     p.Deadline.Unix(),
		"max_deadline": p.MaxDeadline.Unix(),
	}
}

func votedData(v entities.VoteRecord) map[string]any {
	return map[string]any{
		"proposal_id": v.ProposalID,
		"voter":       v.Voter.Hex(),
		"support":     v.Support,
		"weight":      v.Weight.Dec(),
	}
}

func deadlineExtendedData(p entities.Proposal) map[string]any {
	return map[string]any{
		"proposal_id":  p.ID,
		"new_deadline": p.Deadline.Unix(),
	}
}

func resolveNow(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC().Truncate(time.Second)
	}
	return clock.Now().UTC().Truncate(time.Second)
}
