package ports

import (
	"context"
	"time"

	eventsv1 "securevote/contracts/events/v1"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type CustodyRepository interface {
	GetNativeBalance(ctx context.Context, holder common.Address) (uint256.Int, error)
	SetNativeBalance(ctx context.Context, holder common.Address, amount uint256.Int) error
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

type WithdrawInput struct {
	Caller common.Address
	To     common.Address
	Amount uint256.Int
}
