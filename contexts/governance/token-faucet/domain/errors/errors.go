package errors

import "errors"

var (
	ErrAlreadyClaimed = errors.New("address has already claimed from the faucet")
	ErrFaucetDepleted = errors.New("faucet balance is below the claim amount")
	ErrInvalidClaimer = errors.New("claimer must not be the zero address")
	ErrClaimConflict  = errors.New("faucet claim conflict")
)
