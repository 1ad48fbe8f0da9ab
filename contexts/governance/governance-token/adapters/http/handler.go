package httpadapter

import (
	"context"
	"fmt"
	"log/slog"

	"securevote/contexts/governance/governance-token/application"
	"securevote/contexts/governance/governance-token/domain/entities"
	domainerrors "securevote/contexts/governance/governance-token/domain/errors"
	"securevote/contexts/governance/governance-token/ports"
	httptransport "securevote/contexts/governance/governance-token/transport/http"
	"securevote/internal/shared/chain"
	"securevote/internal/shared/units"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) TokenHandler(ctx context.Context) (httptransport.TokenResponse, error) {
	meta, err := h.Service.Metadata(ctx)
	if err != nil {
		return httptransport.TokenResponse{}, err
	}
	return httptransport.TokenResponse{
		Address:              meta.Address.Hex(),
		Name:                 meta.Name,
		Symbol:               meta.Symbol,
		Decimals:             meta.Decimals,
		ExchangeRate:         meta.ExchangeRate,
		TotalSupply:          units.FormatMinor(meta.TotalSupply),
		TotalSupplyFormatted: units.FormatUnits(meta.TotalSupply),
		Reserve:              units.FormatMinor(meta.Reserve),
	}, nil
}

func (h Handler) BalanceHandler(ctx context.Context, address string) (httptransport.BalanceResponse, error) {
	holder, err := parseAddress("address", address)
	if err != nil {
		return httptransport.BalanceResponse{}, err
	}
	balance, err := h.Service.BalanceOf(ctx, holder)
	if err != nil {
		return httptransport.BalanceResponse{}, err
	}
	return httptransport.BalanceResponse{
		Address:          holder.Hex(),
		Balance:          units.FormatMinor(balance),
		BalanceFormatted: units.FormatUnits(balance),
	}, nil
}

func (h Handler) TransferHandler(
	ctx context.Context,
	caller common.Address,
	req httptransport.TransferRequest,
) (httptransport.TransferResponse, error) {
	to, err := parseAddress("to", req.To)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	transfer, err := h.Service.Transfer(ctx, ports.TransferInput{
		From:   caller,
		To:     to,
		Amount: amount,
	})
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	return mapTransfer(transfer), nil
}

func (h Handler) TransferFromHandler(
	ctx context.Context,
	caller common.Address,
	req httptransport.TransferFromRequest,
) (httptransport.TransferResponse, error) {
	from, err := parseAddress("from", req.From)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	to, err := parseAddress("to", req.To)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	transfer, err := h.Service.TransferFrom(ctx, ports.TransferFromInput{
		Spender: caller,
		From:    from,
		To:      to,
		Amount:  amount,
	})
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	return mapTransfer(transfer), nil
}

func (h Handler) ApproveHandler(
	ctx context.Context,
	caller common.Address,
	req httptransport.ApproveRequest,
) (httptransport.ApprovalResponse, error) {
	spender, err := parseAddress("spender", req.Spender)
	if err != nil {
		return httptransport.ApprovalResponse{}, err
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return httptransport.ApprovalResponse{}, err
	}
	approval, err := h.Service.Approve(ctx, ports.ApproveInput{
		Owner:   caller,
		Spender: spender,
		Amount:  amount,
	})
	if err != nil {
		return httptransport.ApprovalResponse{}, err
	}
	return httptransport.ApprovalResponse{
		Owner:      approval.Owner.Hex(),
		Spender:    approval.Spender.Hex(),
		Amount:     units.FormatMinor(approval.Amount),
		OccurredAt: approval.OccurredAt,
	}, nil
}

func (h Handler) AllowanceHandler(ctx context.Context, owner string, spender string) (httptransport.AllowanceResponse, error) {
	ownerAddr, err := parseAddress("owner", owner)
	if err != nil {
		return httptransport.AllowanceResponse{}, err
	}
	spenderAddr, err := parseAddress("spender", spender)
	if err != nil {
		return httptransport.AllowanceResponse{}, err
	}
	amount, err := h.Service.Allowance(ctx, ownerAddr, spenderAddr)
	if err != nil {
		return httptransport.AllowanceResponse{}, err
	}
	return httptransport.AllowanceResponse{
		Owner:   ownerAddr.Hex(),
		Spender: spenderAddr.Hex(),
		Amount:  units.FormatMinor(amount),
	}, nil
}

func (h Handler) PurchaseHandler(
	ctx context.Context,
	caller common.Address,
	req httptransport.PurchaseRequest,
) (httptransport.PurchaseResponse, error) {
	value, err := parseAmount("value_wei", req.ValueWei)
	if err != nil {
		return httptransport.PurchaseResponse{}, err
	}
	purchase, err := h.Service.BuyTokens(ctx, ports.PurchaseInput{
		Buyer: caller,
		Value: value,
	})
	if err != nil {
		return httptransport.PurchaseResponse{}, err
	}
	return httptransport.PurchaseResponse{
		Buyer:           purchase.Buyer.Hex(),
		PaidWei:         units.FormatMinor(purchase.Paid),
		Minted:          units.FormatMinor(purchase.Minted),
		MintedFormatted: units.FormatUnits(purchase.Minted),
		OccurredAt:      purchase.OccurredAt,
	}, nil
}

func mapTransfer(transfer entities.Transfer) httptransport.TransferResponse {
	return httptransport.TransferResponse{
		From:       transfer.From.Hex(),
		To:         transfer.To.Hex(),
		Amount:     units.FormatMinor(transfer.Amount),
		OccurredAt: transfer.OccurredAt,
	}
}

func parseAddress(field string, value string) (common.Address, error) {
	addr, err := chain.ParseAddress(value)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %s must be a hex address", domainerrors.ErrInvalidInput, field)
	}
	return addr, nil
}

func parseAmount(field string, value string) (uint256.Int, error) {
	amount, err := units.ParseMinor(value)
	if err != nil {
		return uint256.Int{}, fmt.Errorf("%w: %s must be a base-10 integer", domainerrors.ErrInvalidInput, field)
	}
	return amount, nil
}
