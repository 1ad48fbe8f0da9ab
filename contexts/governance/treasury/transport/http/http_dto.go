package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TreasuryResponse struct {
	Address          string `json:"address"`
	Owner            string `json:"owner"`
	BalanceWei       string `json:"balance_wei"`
	BalanceFormatted string `json:"balance_formatted"`
}

type WithdrawRequest struct {
	To        string `json:"to"`
	AmountWei string `json:"amount_wei"`
}

type WithdrawalResponse struct {
	By          string    `json:"by"`
	To          string    `json:"to"`
	AmountWei   string    `json:"amount_wei"`
	WithdrawnAt time.Time `json:"withdrawn_at"`
}
