package entities

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Faucet is the static configuration of one faucet deployment.
type Faucet struct {
	Address     common.Address
	ClaimAmount uint256.Int
}

// CanServe reports whether a faucet holding balance can pay one more claim.
func (f Faucet) CanServe(balance uint256.Int) bool {
	return !balance.Lt(&f.ClaimAmount)
}

// Claim is the permanent record of an address having drawn from the faucet.
type Claim struct {
	Claimer   common.Address
	Amount    uint256.Int
	ClaimedAt time.Time
}

// Info is the faucet read model.
type Info struct {
	Faucet
	Balance uint256.Int
}

// RemainingClaims is how many more claims the current balance can pay.
func (i Info) RemainingClaims() uint64 {
	if i.ClaimAmount.IsZero() {
		return 0
	}
	var out uint256.Int
	out.Div(&i.Balance, &i.ClaimAmount)
	if !out.IsUint64() {
		return ^uint64(0)
	}
	return out.Uint64()
}
