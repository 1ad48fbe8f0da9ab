package entities

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Params are the governance constants of one engine deployment.
type Params struct {
	CreationFee       uint256.Int
	ProposalThreshold uint256.Int
	MinQuorum         uint256.Int
	VotingPeriod      time.Duration
	ExtensionWindow   time.Duration
	ExtensionPeriod   time.Duration
	MaxExtension      time.Duration
	MinGasExecute     uint64
}

// DefaultParams mirrors the deployed contract: 0.01 ETH fee, 100 GT threshold,
// 1,000,000 GT quorum, three day voting with up to two 12h extensions.
func DefaultParams() Params {
	return Params{
		CreationFee:       scaled(1, 16),
		ProposalThreshold: scaled(100, 18),
		MinQuorum:         scaled(1_000_000, 18),
		VotingPeriod:      3 * 24 * time.Hour,
		ExtensionWindow:   12 * time.Hour,
		ExtensionPeriod:   12 * time.Hour,
		MaxExtension:      24 * time.Hour,
		MinGasExecute:     100_000,
	}
}

func scaled(value uint64, decimals uint64) uint256.Int {
	var out uint256.Int
	out.Exp(uint256.NewInt(10), uint256.NewInt(decimals))
	out.Mul(&out, uint256.NewInt(value))
	return out
}

// Engine is the identity of one voting engine deployment.
type Engine struct {
	Address common.Address
	Owner   common.Address
}
