package application

import (
	"encoding/json"
	"time"

	"securevote/contexts/governance/governance-token/domain/entities"
	"securevote/contexts/governance/governance-token/ports"
)

func newTokenEnvelope(
	eventID string,
	eventType string,
	token entities.Token,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Token events share one partition so consumers observe ledger order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "governance-token",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "token",
		PartitionKey:     token.Address.Hex(),
		Data:             payload,
	}, nil
}

func transferEventData(transfer entities.Transfer) map[string]any {
	return map[string]any{
		"from":  transfer.From.Hex(),
		"to":    transfer.To.Hex(),
		"value": transfer.Amount.Dec(),
	}
}

func approvalEventData(approval entities.Approval) map[string]any {
	return map[string]any{
		"owner":   approval.Owner.Hex(),
		"spender": approval.Spender.Hex(),
		"value":   approval.Amount.Dec(),
	}
}

