package application

import (
	"context"
	"log/slog"
	"time"

	"securevote/contexts/governance/governance-token/domain/entities"
	domainerrors "securevote/contexts/governance/governance-token/domain/errors"
	"securevote/contexts/governance/governance-token/ports"
	eventsv1 "securevote/contracts/events/v1"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Service is the governance token ledger. Every mutation runs inside one
// transaction together with its outbox rows.
type Service struct {
	Repo    ports.LedgerRepository
	Custody ports.CustodyRepository
	Tx      ports.Transactor
	Outbox  ports.OutboxWriter
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Token   entities.Token
	Logger  *slog.Logger
}

func (s Service) Metadata(ctx context.Context) (entities.Metadata, error) {
	supply, err := s.Repo.GetTotalSupply(ctx)
	if err != nil {
		return entities.Metadata{}, err
	}
	reserve, err := s.Custody.GetNativeBalance(ctx, s.Token.Address)
	if err != nil {
		return entities.Metadata{}, err
	}
	return entities.Metadata{
		Token:       s.Token,
		TotalSupply: supply,
		Reserve:     reserve,
	}, nil
}

func (s Service) BalanceOf(ctx context.Context, holder common.Address) (uint256.Int, error) {
	return s.Repo.GetTokenBalance(ctx, holder)
}

func (s Service) TotalSupply(ctx context.Context) (uint256.Int, error) {
	return s.Repo.GetTotalSupply(ctx)
}

func (s Service) Allowance(ctx context.Context, owner common.Address, spender common.Address) (uint256.Int, error) {
	return s.Repo.GetAllowance(ctx, owner, spender)
}

// Transfer moves tokens from input.From to input.To.
func (s Service) Transfer(ctx context.Context, input ports.TransferInput) (entities.Transfer, error) {
	logger := ResolveLogger(s.Logger)
	if input.To == (common.Address{}) {
		logFailure(logger, "token transfer rejected", "token_transfer_rejected", domainerrors.ErrInvalidReceiver,
			"from", input.From.Hex(),
		)
		return entities.Transfer{}, domainerrors.ErrInvalidReceiver
	}

	transfer := entities.Transfer{
		From:   input.From,
		To:     input.To,
		Amount: input.Amount,
	}
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		transfer.OccurredAt = s.now()
		if err := s.move(ctx, transfer.From, transfer.To, transfer.Amount); err != nil {
			return err
		}
		return s.appendEvent(ctx, eventsv1.EventTokenTransfer, transfer.OccurredAt, transferEventData(transfer))
	})
	if err != nil {
		logFailure(logger, "token transfer failed", "token_transfer_failed", err,
			"from", input.From.Hex(),
			"to", input.To.Hex(),
			"amount", input.Amount.Dec(),
		)
		return entities.Transfer{}, err
	}

	logger.Info("token transfer completed",
		"event", "token_transfer_completed",
		"module", "governance/governance-token",
		"layer", "application",
		"from", transfer.From.Hex(),
		"to", transfer.To.Hex(),
		"amount", transfer.Amount.Dec(),
	)
	return transfer, nil
}

// Approve overwrites the spender's allowance over the owner's balance.
func (s Service) Approve(ctx context.Context, input ports.ApproveInput) (entities.Approval, error) {
	logger := ResolveLogger(s.Logger)
	if input.Spender == (common.Address{}) {
		logFailure(logger, "token approval rejected", "token_approval_rejected", domainerrors.ErrInvalidSpender,
			"owner", input.Owner.Hex(),
		)
		return entities.Approval{}, domainerrors.ErrInvalidSpender
	}

	approval := entities.Approval{
		Owner:   input.Owner,
		Spender: input.Spender,
		Amount:  input.Amount,
	}
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		approval.OccurredAt = s.now()
		if err := s.Repo.SetAllowance(ctx, approval.Owner, approval.Spender, approval.Amount); err != nil {
			return err
		}
		return s.appendEvent(ctx, eventsv1.EventTokenApproval, approval.OccurredAt, approvalEventData(approval))
	})
	if err != nil {
		logFailure(logger, "token approval failed", "token_approval_failed", err,
			"owner", input.Owner.Hex(),
			"spender", input.Spender.Hex(),
		)
		return entities.Approval{}, err
	}

	logger.Info("token approval recorded",
		"event", "token_approval_recorded",
		"module", "governance/governance-token",
		"layer", "application",
		"owner", approval.Owner.Hex(),
		"spender", approval.Spender.Hex(),
		"amount", approval.Amount.Dec(),
	)
	return approval, nil
}

// TransferFrom spends allowance granted by input.From to input.Spender.
func (s Service) TransferFrom(ctx context.Context, input ports.TransferFromInput) (entities.Transfer, error) {
	logger := ResolveLogger(s.Logger)
	if input.To == (common.Address{}) {
		logFailure(logger, "delegated transfer rejected", "token_transfer_from_rejected", domainerrors.ErrInvalidReceiver,
			"spender", input.Spender.Hex(),
			"from", input.From.Hex(),
		)
		return entities.Transfer{}, domainerrors.ErrInvalidReceiver
	}

	transfer := entities.Transfer{
		From:   input.From,
		To:     input.To,
		Amount: input.Amount,
	}
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		transfer.OccurredAt = s.now()
		allowance, err := s.Repo.GetAllowance(ctx, input.From, input.Spender)
		if err != nil {
			return err
		}
		if !entities.IsUnlimited(allowance) {
			remaining, ok := entities.Debit(allowance, input.Amount)
			if !ok {
				return domainerrors.ErrInsufficientAllowance
			}
			if err := s.Repo.SetAllowance(ctx, input.From, input.Spender, remaining); err != nil {
				return err
			}
		}
		if err := s.move(ctx, transfer.From, transfer.To, transfer.Amount); err != nil {
			return err
		}
		return s.appendEvent(ctx, eventsv1.EventTokenTransfer, transfer.OccurredAt, transferEventData(transfer))
	})
	if err != nil {
		logFailure(logger, "delegated transfer failed", "token_transfer_from_failed", err,
			"spender", input.Spender.Hex(),
			"from", input.From.Hex(),
			"to", input.To.Hex(),
			"amount", input.Amount.Dec(),
		)
		return entities.Transfer{}, err
	}

	logger.Info("delegated transfer completed",
		"event", "token_transfer_from_completed",
		"module", "governance/governance-token",
		"layer", "application",
		"spender", input.Spender.Hex(),
		"from", transfer.From.Hex(),
		"to", transfer.To.Hex(),
		"amount", transfer.Amount.Dec(),
	)
	return transfer, nil
}

// BuyTokens mints Value*ExchangeRate tokens to the buyer and keeps the payment
// in the token contract's custody balance.
func (s Service) BuyTokens(ctx context.Context, input ports.PurchaseInput) (entities.Purchase, error) {
	logger := ResolveLogger(s.Logger)
	if input.Value.IsZero() {
		logFailure(logger, "token purchase rejected", "token_purchase_rejected", domainerrors.ErrZeroPayment,
			"buyer", input.Buyer.Hex(),
		)
		return entities.Purchase{}, domainerrors.ErrZeroPayment
	}
	minted, ok := entities.MintAmount(input.Value, s.Token.ExchangeRate)
	if !ok {
		logFailure(logger, "token purchase rejected", "token_purchase_rejected", domainerrors.ErrSupplyOverflow,
			"buyer", input.Buyer.Hex(),
			"paid", input.Value.Dec(),
		)
		return entities.Purchase{}, domainerrors.ErrSupplyOverflow
	}

	purchase := entities.Purchase{
		Buyer:  input.Buyer,
		Paid:   input.Value,
		Minted: minted,
	}
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		purchase.OccurredAt = s.now()
		if err := s.mint(ctx, purchase.Buyer, purchase.Minted, purchase.OccurredAt); err != nil {
			return err
		}
		reserve, err := s.Custody.GetNativeBalance(ctx, s.Token.Address)
		if err != nil {
			return err
		}
		reserve, ok := entities.Credit(reserve, purchase.Paid)
		if !ok {
			return domainerrors.ErrSupplyOverflow
		}
		return s.Custody.SetNativeBalance(ctx, s.Token.Address, reserve)
	})
	if err != nil {
		logFailure(logger, "token purchase failed", "token_purchase_failed", err,
			"buyer", input.Buyer.Hex(),
			"paid", input.Value.Dec(),
		)
		return entities.Purchase{}, err
	}

	logger.Info("tokens purchased",
		"event", "token_purchase_completed",
		"module", "governance/governance-token",
		"layer", "application",
		"buyer", purchase.Buyer.Hex(),
		"paid", purchase.Paid.Dec(),
		"minted", purchase.Minted.Dec(),
	)
	return purchase, nil
}

// Mint creates new supply for to. It is only reachable from deployment genesis.
func (s Service) Mint(ctx context.Context, to common.Address, amount uint256.Int) (entities.Transfer, error) {
	logger := ResolveLogger(s.Logger)
	if to == (common.Address{}) {
		return entities.Transfer{}, domainerrors.ErrInvalidReceiver
	}
	var now time.Time
	if err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		now = s.now()
		return s.mint(ctx, to, amount, now)
	}); err != nil {
		logFailure(logger, "token mint failed", "token_mint_failed", err,
			"to", to.Hex(),
			"amount", amount.Dec(),
		)
		return entities.Transfer{}, err
	}

	logger.Info("tokens minted",
		"event", "token_mint_completed",
		"module", "governance/governance-token",
		"layer", "application",
		"to", to.Hex(),
		"amount", amount.Dec(),
	)
	return entities.Transfer{To: to, Amount: amount, OccurredAt: now}, nil
}

func (s Service) mint(ctx context.Context, to common.Address, amount uint256.Int, now time.Time) error {
	supply, err := s.Repo.GetTotalSupply(ctx)
	if err != nil {
		return err
	}
	supply, ok := entities.Credit(supply, amount)
	if !ok {
		return domainerrors.ErrSupplyOverflow
	}
	balance, err := s.Repo.GetTokenBalance(ctx, to)
	if err != nil {
		return err
	}
	balance, ok = entities.Credit(balance, amount)
	if !ok {
		return domainerrors.ErrSupplyOverflow
	}
	if err := s.Repo.SetTotalSupply(ctx, supply); err != nil {
		return err
	}
	if err := s.Repo.SetTokenBalance(ctx, to, balance); err != nil {
		return err
	}
	return s.appendEvent(ctx, eventsv1.EventTokenTransfer, now, transferEventData(entities.Transfer{
		To:     to,
		Amount: amount,
	}))
}

// move debits from before reading the receiver so a self-transfer is a no-op.
func (s Service) move(ctx context.Context, from common.Address, to common.Address, amount uint256.Int) error {
	fromBalance, err := s.Repo.GetTokenBalance(ctx, from)
	if err != nil {
		return err
	}
	fromBalance, ok := entities.Debit(fromBalance, amount)
	if !ok {
		return domainerrors.ErrInsufficientBalance
	}
	if err := s.Repo.SetTokenBalance(ctx, from, fromBalance); err != nil {
		return err
	}
	toBalance, err := s.Repo.GetTokenBalance(ctx, to)
	if err != nil {
		return err
	}
	toBalance, ok = entities.Credit(toBalance, amount)
	if !ok {
		return domainerrors.ErrSupplyOverflow
	}
	return s.Repo.SetTokenBalance(ctx, to, toBalance)
}

func (s Service) appendEvent(ctx context.Context, eventType string, occurredAt time.Time, data map[string]any) error {
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newTokenEnvelope(eventID, eventType, s.Token, occurredAt, data)
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, envelope)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC().Truncate(time.Second)
	}
	return s.Clock.Now().UTC().Truncate(time.Second)
}
