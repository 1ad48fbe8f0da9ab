package entities

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type Treasury struct {
	Address common.Address
	Owner   common.Address
}

// IsOwner reports whether caller may withdraw.
func (t Treasury) IsOwner(caller common.Address) bool {
	return caller == t.Owner
}

type Deposit struct {
	From       common.Address
	Amount     uint256.Int
	ReceivedAt time.Time
}

type Withdrawal struct {
	By          common.Address
	To          common.Address
	Amount      uint256.Int
	WithdrawnAt time.Time
}

type Info struct {
	Treasury
	Balance uint256.Int
}
