package httpadapter

import (
	"context"
	"fmt"
	"log/slog"

	"securevote/contexts/governance/treasury/application"
	"securevote/contexts/governance/treasury/ports"
	httptransport "securevote/contexts/governance/treasury/transport/http"
	"securevote/internal/shared/chain"
	"securevote/internal/shared/units"

	"github.com/ethereum/go-ethereum/common"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) TreasuryHandler(ctx context.Context) (httptransport.TreasuryResponse, error) {
	info, err := h.Service.Info(ctx)
	if err != nil {
		return httptransport.TreasuryResponse{}, err
	}
	return httptransport.TreasuryResponse{
		Address:          info.Address.Hex(),
		Owner:            info.Owner.Hex(),
		BalanceWei:       units.FormatMinor(info.Balance),
		BalanceFormatted: units.FormatUnits(info.Balance),
	}, nil
}

func (h Handler) WithdrawHandler(
	ctx context.Context,
	caller common.Address,
	req httptransport.WithdrawRequest,
) (httptransport.WithdrawalResponse, error) {
	to, err := chain.ParseAddress(req.To)
	if err != nil {
		return httptransport.WithdrawalResponse{}, err
	}
	amount, err := units.ParseMinor(req.AmountWei)
	if err != nil {
		return httptransport.WithdrawalResponse{}, fmt.Errorf("amount_wei: %w", err)
	}
	withdrawal, err := h.Service.Withdraw(ctx, ports.WithdrawInput{
		Caller: caller,
		To:     to,
		Amount: amount,
	})
	if err != nil {
		return httptransport.WithdrawalResponse{}, err
	}
	return httptransport.WithdrawalResponse{
		By:          withdrawal.By.Hex(),
		To:          withdrawal.To.Hex(),
		AmountWei:   units.FormatMinor(withdrawal.Amount),
		WithdrawnAt: withdrawal.WithdrawnAt,
	}, nil
}
