package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"securevote/contexts/governance/treasury/domain/entities"
	domainerrors "securevote/contexts/governance/treasury/domain/errors"
	"securevote/contexts/governance/treasury/ports"
	eventsv1 "securevote/contracts/events/v1"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type Service struct {
	Custody  ports.CustodyRepository
	Tx       ports.Transactor
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Treasury entities.Treasury
	Logger   *slog.Logger
}

func (s Service) Address() common.Address {
	return s.Treasury.Address
}

func (s Service) Owner() common.Address {
	return s.Treasury.Owner
}

func (s Service) Balance(ctx context.Context) (uint256.Int, error) {
	return s.Custody.GetNativeBalance(ctx, s.Treasury.Address)
}

func (s Service) Info(ctx context.Context) (entities.Info, error) {
	balance, err := s.Balance(ctx)
	if err != nil {
		return entities.Info{}, err
	}
	return entities.Info{Treasury: s.Treasury, Balance: balance}, nil
}

// Deposit is the passive receive path: it credits the treasury and records
// the payer. Callers run it inside their own transaction.
func (s Service) Deposit(ctx context.Context, from common.Address, amount uint256.Int) (entities.Deposit, error) {
	deposit := entities.Deposit{
		From:   from,
		Amount: amount,
	}
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		deposit.ReceivedAt = s.now()
		balance, err := s.Custody.GetNativeBalance(ctx, s.Treasury.Address)
		if err != nil {
			return err
		}
		var next uint256.Int
		if _, overflow := next.AddOverflow(&balance, &amount); overflow {
			return domainerrors.ErrBalanceOverflow
		}
		if err := s.Custody.SetNativeBalance(ctx, s.Treasury.Address, next); err != nil {
			return err
		}
		return s.appendEvent(ctx, eventsv1.EventTreasuryFeeReceived, "from", from, deposit.ReceivedAt, map[string]any{
			"from":   from.Hex(),
			"amount": amount.Dec(),
		})
	})
	if err != nil {
		resolveLogger(s.Logger).Error("treasury deposit failed",
			"event", "treasury_deposit_failed",
			"module", "governance/treasury",
			"layer", "application",
			"from", from.Hex(),
			"amount", amount.Dec(),
			"error", err.Error(),
		)
		return entities.Deposit{}, err
	}
	resolveLogger(s.Logger).Info("treasury deposit received",
		"event", "treasury_deposit_received",
		"module", "governance/treasury",
		"layer", "application",
		"from", from.Hex(),
		"amount", amount.Dec(),
	)
	return deposit, nil
}

// Withdraw moves native funds out of the treasury. Only the owner may call it.
func (s Service) Withdraw(ctx context.Context, input ports.WithdrawInput) (entities.Withdrawal, error) {
	logger := resolveLogger(s.Logger)
	if err := s.validateWithdraw(input); err != nil {
		logger.Warn("treasury withdrawal rejected",
			"event", "treasury_withdrawal_rejected",
			"module", "governance/treasury",
			"layer", "application",
			"caller", input.Caller.Hex(),
			"to", input.To.Hex(),
			"error", err.Error(),
		)
		return entities.Withdrawal{}, err
	}

	withdrawal := entities.Withdrawal{
		By:     input.Caller,
		To:     input.To,
		Amount: input.Amount,
	}
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		withdrawal.WithdrawnAt = s.now()
		balance, err := s.Custody.GetNativeBalance(ctx, s.Treasury.Address)
		if err != nil {
			return err
		}
		if balance.Lt(&withdrawal.Amount) {
			return domainerrors.ErrInsufficientFunds
		}
		var remaining uint256.Int
		remaining.Sub(&balance, &withdrawal.Amount)
		if err := s.Custody.SetNativeBalance(ctx, s.Treasury.Address, remaining); err != nil {
			return err
		}
		received, err := s.Custody.GetNativeBalance(ctx, withdrawal.To)
		if err != nil {
			return err
		}
		var credited uint256.Int
		if _, overflow := credited.AddOverflow(&received, &withdrawal.Amount); overflow {
			return domainerrors.ErrBalanceOverflow
		}
		if err := s.Custody.SetNativeBalance(ctx, withdrawal.To, credited); err != nil {
			return err
		}
		return s.appendEvent(ctx, eventsv1.EventTreasuryWithdrawal, "to", withdrawal.To, withdrawal.WithdrawnAt, map[string]any{
			"by":     withdrawal.By.Hex(),
			"to":     withdrawal.To.Hex(),
			"amount": withdrawal.Amount.Dec(),
		})
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrInsufficientFunds) {
			logger.Warn("treasury withdrawal rejected",
				"event", "treasury_withdrawal_rejected",
				"module", "governance/treasury",
				"layer", "application",
				"caller", input.Caller.Hex(),
				"amount", input.Amount.Dec(),
				"error", err.Error(),
			)
			return entities.Withdrawal{}, err
		}
		logger.Error("treasury withdrawal failed",
			"event", "treasury_withdrawal_failed",
			"module", "governance/treasury",
			"layer", "application",
			"caller", input.Caller.Hex(),
			"error", err.Error(),
		)
		return entities.Withdrawal{}, err
	}

	logger.Info("treasury withdrawal completed",
		"event", "treasury_withdrawal_completed",
		"module", "governance/treasury",
		"layer", "application",
		"to", withdrawal.To.Hex(),
		"amount", withdrawal.Amount.Dec(),
	)
	return withdrawal, nil
}

func (s Service) validateWithdraw(input ports.WithdrawInput) error {
	if !s.Treasury.IsOwner(input.Caller) {
		return domainerrors.ErrUnauthorized
	}
	if input.To == (common.Address{}) {
		return domainerrors.ErrInvalidReceiver
	}
	if input.Amount.IsZero() {
		return domainerrors.ErrInvalidAmount
	}
	return nil
}

func (s Service) appendEvent(
	ctx context.Context,
	eventType string,
	partitionKeyPath string,
	partitionKey common.Address,
	occurredAt time.Time,
	data map[string]any,
) error {
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "treasury",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: partitionKeyPath,
		PartitionKey:     partitionKey.Hex(),
		Data:             payload,
	})
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC().Truncate(time.Second)
	}
	return s.Clock.Now().UTC().Truncate(time.Second)
}
