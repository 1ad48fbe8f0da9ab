package ports

import (
	"context"
	"time"

	"securevote/contexts/governance/voting-engine/domain/entities"
	eventsv1 "securevote/contracts/events/v1"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type ProposalRepository interface {
	// NextProposalID allocates the next sequential id, starting at 1.
	NextProposalID(ctx context.Context) (uint64, error)
	ProposalCount(ctx context.Context) (uint64, error)
	SaveProposal(ctx context.Context, proposal entities.Proposal) error
	GetProposal(ctx context.Context, proposalID uint64) (entities.Proposal, error)
	ListProposals(ctx context.Context, offset int, limit int) ([]entities.Proposal, error)
}

type VoteRepository interface {
	GetVote(ctx context.Context, proposalID uint64, voter common.Address) (entities.VoteRecord, bool, error)
	SaveVote(ctx context.Context, vote entities.VoteRecord) error
}

type SettingsRepository interface {
	// GetTreasury returns the zero address while no treasury is linked.
	GetTreasury(ctx context.Context) (common.Address, error)
	SetTreasury(ctx context.Context, treasury common.Address) error
}

// TokenLedger is the engine's read-only view of voting power.
type TokenLedger interface {
	BalanceOf(ctx context.Context, holder common.Address) (uint256.Int, error)
}

// FeeCollector receives forwarded creation fees.
type FeeCollector interface {
	IsTreasury(treasury common.Address) bool
	Deposit(ctx context.Context, treasury common.Address, from common.Address, amount uint256.Int) error
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = eventsv1.Envelope

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// RelayMetrics and KeeperMetrics are optional worker instrumentation hooks.
type RelayMetrics interface {
	OutboxPublished(eventType string)
	OutboxPublishFailed(eventType string)
}

type KeeperMetrics interface {
	ProposalAutoExecuted()
	ProposalAutoExecuteFailed()
}
