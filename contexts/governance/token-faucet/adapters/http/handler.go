package httpadapter

import (
	"context"
	"log/slog"

	"securevote/contexts/governance/token-faucet/application"
	httptransport "securevote/contexts/governance/token-faucet/transport/http"
	"securevote/internal/shared/chain"
	"securevote/internal/shared/units"

	"github.com/ethereum/go-ethereum/common"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) FaucetHandler(ctx context.Context) (httptransport.FaucetResponse, error) {
	info, err := h.Service.Info(ctx)
	if err != nil {
		return httptransport.FaucetResponse{}, err
	}
	return httptransport.FaucetResponse{
		Address:              info.Address.Hex(),
		ClaimAmount:          units.FormatMinor(info.ClaimAmount),
		ClaimAmountFormatted: units.FormatUnits(info.ClaimAmount),
		Balance:              units.FormatMinor(info.Balance),
		BalanceFormatted:     units.FormatUnits(info.Balance),
		RemainingClaims:      info.RemainingClaims(),
	}, nil
}

// ClaimStatusHandler returns chain.ErrInvalidAddress for malformed input.
func (h Handler) ClaimStatusHandler(ctx context.Context, address string) (httptransport.ClaimStatusResponse, error) {
	claimer, err := chain.ParseAddress(address)
	if err != nil {
		return httptransport.ClaimStatusResponse{}, err
	}
	claimed, err := h.Service.HasClaimed(ctx, claimer)
	if err != nil {
		return httptransport.ClaimStatusResponse{}, err
	}
	return httptransport.ClaimStatusResponse{
		Address:    claimer.Hex(),
		HasClaimed: claimed,
	}, nil
}

func (h Handler) ClaimHandler(ctx context.Context, caller common.Address) (httptransport.ClaimResponse, error) {
	claim, err := h.Service.Claim(ctx, caller)
	if err != nil {
		return httptransport.ClaimResponse{}, err
	}
	return httptransport.ClaimResponse{
		Claimer:   claim.Claimer.Hex(),
		Amount:    units.FormatMinor(claim.Amount),
		ClaimedAt: claim.ClaimedAt,
	}, nil
}
