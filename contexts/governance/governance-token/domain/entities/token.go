package entities

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Token is the static identity of one governance token deployment.
type Token struct {
	Address      common.Address
	Name         string
	Symbol       string
	Decimals     uint8
	ExchangeRate uint64
}

// Metadata is the read model returned for the token contract.
type Metadata struct {
	Token
	TotalSupply uint256.Int
	Reserve     uint256.Int
}

type Transfer struct {
	From       common.Address
	To         common.Address
	Amount     uint256.Int
	OccurredAt time.Time
}

// IsMint reports whether the transfer created new supply.
func (t Transfer) IsMint() bool {
	return t.From == (common.Address{})
}

type Approval struct {
	Owner      common.Address
	Spender    common.Address
	Amount     uint256.Int
	OccurredAt time.Time
}

type Purchase struct {
	Buyer      common.Address
	Paid       uint256.Int
	Minted     uint256.Int
	OccurredAt time.Time
}
