package errors

import "errors"

var (
	ErrInsufficientBalance   = errors.New("insufficient token balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrZeroPayment           = errors.New("payment must be greater than zero")
	ErrSupplyOverflow        = errors.New("token supply would overflow")
	ErrInvalidReceiver       = errors.New("receiver must not be the zero address")
	ErrInvalidSpender        = errors.New("spender must not be the zero address")
)

var ErrInvalidInput = errors.New("invalid token input")
