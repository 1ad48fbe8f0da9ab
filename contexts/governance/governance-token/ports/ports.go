package ports

import (
	"context"
	"time"

	eventsv1 "securevote/contracts/events/v1"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// LedgerRepository stores balances, allowances and total supply. Absent
// records read as zero.
type LedgerRepository interface {
	GetTokenBalance(ctx context.Context, holder common.Address) (uint256.Int, error)
	SetTokenBalance(ctx context.Context, holder common.Address, amount uint256.Int) error
	GetAllowance(ctx context.Context, owner common.Address, spender common.Address) (uint256.Int, error)
	SetAllowance(ctx context.Context, owner common.Address, spender common.Address, amount uint256.Int) error
	GetTotalSupply(ctx context.Context) (uint256.Int, error)
	SetTotalSupply(ctx context.Context, amount uint256.Int) error
}

// CustodyRepository stores native-asset balances held by contract addresses.
type CustodyRepository interface {
	GetNativeBalance(ctx context.Context, holder common.Address) (uint256.Int, error)
	SetNativeBalance(ctx context.Context, holder common.Address, amount uint256.Int) error
}

// Transactor runs fn atomically. Nested calls join the outer transaction.
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

type TransferInput struct {
	From   common.Address
	To     common.Address
	Amount uint256.Int
}

type TransferFromInput struct {
	Spender common.Address
	From    common.Address
	To      common.Address
	Amount  uint256.Int
}

type ApproveInput struct {
	Owner   common.Address
	Spender common.Address
	Amount  uint256.Int
}

type PurchaseInput struct {
	Buyer common.Address
	Value uint256.Int
}
