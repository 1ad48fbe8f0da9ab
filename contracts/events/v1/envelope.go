package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical, versioned event envelope written to the outbox by
// every governance module and relayed unchanged to the event bus.
// Fields must stay backward compatible.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// Event types emitted by the governance modules.
const (
	EventTokenTransfer              = "token.transfer"
	EventTokenApproval              = "token.approval"
	EventFaucetTokensClaimed        = "faucet.tokens_claimed"
	EventTreasuryFeeReceived        = "treasury.fee_received"
	EventTreasuryWithdrawal         = "treasury.withdrawal"
	EventGovernanceTreasuryLinked   = "governance.treasury_linked"
	EventGovernanceProposalCreated  = "governance.proposal_created"
	EventGovernanceVoted            = "governance.voted"
	EventGovernanceDeadlineExtended = "governance.deadline_extended"
	EventGovernanceProposalExecuted = "governance.proposal_executed"
)

// AllEventTypes lists every event type in emission-domain order.
func AllEventTypes() []string {
	return []string{
		EventTokenTransfer,
		EventTokenApproval,
		EventFaucetTokensClaimed,
		EventTreasuryFeeReceived,
		EventTreasuryWithdrawal,
		EventGovernanceTreasuryLinked,
		EventGovernanceProposalCreated,
		EventGovernanceVoted,
		EventGovernanceDeadlineExtended,
		EventGovernanceProposalExecuted,
	}
}
