package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TokenResponse struct {
	Address              string `json:"address"`
	Name                 string `json:"name"`
	Symbol               string `json:"symbol"`
	Decimals             uint8  `json:"decimals"`
	ExchangeRate         uint64 `json:"exchange_rate"`
	TotalSupply          string `json:"total_supply"`
	TotalSupplyFormatted string `json:"total_supply_formatted"`
	Reserve              string `json:"reserve_wei"`
}

type BalanceResponse struct {
	Address          string `json:"address"`
	Balance          string `json:"balance"`
	BalanceFormatted string `json:"balance_formatted"`
}

type TransferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type TransferFromRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type TransferResponse struct {
	From       string    `json:"from"`
	To         string    `json:"to"`
	Amount     string    `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ApproveRequest struct {
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type ApprovalResponse struct {
	Owner      string    `json:"owner"`
	Spender    string    `json:"spender"`
	Amount     string    `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

type AllowanceResponse struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type PurchaseRequest struct {
	ValueWei string `json:"value_wei"`
}

type PurchaseResponse struct {
	Buyer           string    `json:"buyer"`
	PaidWei         string    `json:"paid_wei"`
	Minted          string    `json:"minted"`
	MintedFormatted string    `json:"minted_formatted"`
	OccurredAt      time.Time `json:"occurred_at"`
}
