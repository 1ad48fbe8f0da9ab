package deployment

import (
	"context"

	tokenapp "securevote/contexts/governance/governance-token/application"
	tokenports "securevote/contexts/governance/governance-token/ports"
	treasuryapp "securevote/contexts/governance/treasury/application"
	votingerrors "securevote/contexts/governance/voting-engine/domain/errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// tokenLedger binds the faucet's and the engine's TokenLedger ports to the
// token module.
type tokenLedger struct {
	token tokenapp.Service
}

func (l tokenLedger) BalanceOf(ctx context.Context, holder common.Address) (uint256.Int, error) {
	return l.token.BalanceOf(ctx, holder)
}

func (l tokenLedger) Transfer(ctx context.Context, from common.Address, to common.Address, amount uint256.Int) error {
	_, err := l.token.Transfer(ctx, tokenports.TransferInput{
		From:   from,
		To:     to,
		Amount: amount,
	})
	return err
}

// feeCollector binds the engine's FeeCollector port to the treasury module.
type feeCollector struct {
	treasury treasuryapp.Service
}

func (f feeCollector) IsTreasury(addr common.Address) bool {
	return addr == f.treasury.Address()
}

func (f feeCollector) Deposit(ctx context.Context, treasury common.Address, from common.Address, amount uint256.Int) error {
	if !f.IsTreasury(treasury) {
		return votingerrors.ErrInvalidTreasury
	}
	_, err := f.treasury.Deposit(ctx, from, amount)
	return err
}
