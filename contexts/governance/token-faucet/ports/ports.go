package ports

import (
	"context"
	"time"

	"securevote/contexts/governance/token-faucet/domain/entities"
	eventsv1 "securevote/contracts/events/v1"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ClaimRepository stores the one-way claim flags.
type ClaimRepository interface {
	HasClaimed(ctx context.Context, claimer common.Address) (bool, error)
	SaveClaim(ctx context.Context, claim entities.Claim) error
}

// TokenLedger is the faucet's view of the governance token.
type TokenLedger interface {
	BalanceOf(ctx context.Context, holder common.Address) (uint256.Int, error)
	Transfer(ctx context.Context, from common.Address, to common.Address, amount uint256.Int) error
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
