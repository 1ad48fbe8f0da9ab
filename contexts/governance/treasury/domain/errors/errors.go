package errors

import "errors"

var (
	ErrUnauthorized      = errors.New("caller is not the treasury owner")
	ErrInsufficientFunds = errors.New("treasury balance is below the requested amount")
	ErrInvalidReceiver   = errors.New("receiver must not be the zero address")
	ErrInvalidAmount     = errors.New("withdrawal amount must be greater than zero")
	ErrBalanceOverflow   = errors.New("native balance would overflow")
)
