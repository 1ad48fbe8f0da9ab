package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type FaucetResponse struct {
	Address              string `json:"address"`
	ClaimAmount          string `json:"claim_amount"`
	ClaimAmountFormatted string `json:"claim_amount_formatted"`
	Balance              string `json:"balance"`
	BalanceFormatted     string `json:"balance_formatted"`
	RemainingClaims      uint64 `json:"remaining_claims"`
}

type ClaimStatusResponse struct {
	Address    string `json:"address"`
	HasClaimed bool   `json:"has_claimed"`
}

type ClaimResponse struct {
	Claimer   string    `json:"claimer"`
	Amount    string    `json:"amount"`
	ClaimedAt time.Time `json:"claimed_at"`
}
