package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"securevote/contexts/governance/token-faucet/domain/entities"
	domainerrors "securevote/contexts/governance/token-faucet/domain/errors"
	"securevote/contexts/governance/token-faucet/ports"
	eventsv1 "securevote/contracts/events/v1"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type Service struct {
	Claims ports.ClaimRepository
	Ledger ports.TokenLedger
	Tx     ports.Transactor
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Faucet entities.Faucet
	Logger *slog.Logger
}

// Claim pays the fixed claim amount to claimer exactly once per address.
func (s Service) Claim(ctx context.Context, claimer common.Address) (entities.Claim, error) {
	logger := ResolveLogger(s.Logger)
	if claimer == (common.Address{}) {
		logger.Warn("faucet claim rejected",
			"event", "faucet_claim_rejected",
			"module", "governance/token-faucet",
			"layer", "application",
			"error", domainerrors.ErrInvalidClaimer.Error(),
		)
		return entities.Claim{}, domainerrors.ErrInvalidClaimer
	}

	claim := entities.Claim{
		Claimer: claimer,
		Amount:  s.Faucet.ClaimAmount,
	}
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		claim.ClaimedAt = s.now()
		claimed, err := s.Claims.HasClaimed(ctx, claimer)
		if err != nil {
			return err
		}
		if claimed {
			return domainerrors.ErrAlreadyClaimed
		}
		balance, err := s.Ledger.BalanceOf(ctx, s.Faucet.Address)
		if err != nil {
			return err
		}
		if !s.Faucet.CanServe(balance) {
			return domainerrors.ErrFaucetDepleted
		}
		if err := s.Ledger.Transfer(ctx, s.Faucet.Address, claimer, claim.Amount); err != nil {
			return err
		}
		if err := s.Claims.SaveClaim(ctx, claim); err != nil {
			return err
		}
		return s.appendClaimedEvent(ctx, claim)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyClaimed) || errors.Is(err, domainerrors.ErrFaucetDepleted) {
			logger.Warn("faucet claim rejected",
				"event", "faucet_claim_rejected",
				"module", "governance/token-faucet",
				"layer", "application",
				"claimer", claimer.Hex(),
				"error", err.Error(),
			)
			return entities.Claim{}, err
		}
		logger.Error("faucet claim failed",
			"event", "faucet_claim_failed",
			"module", "governance/token-faucet",
			"layer", "application",
			"claimer", claimer.Hex(),
			"error", err.Error(),
		)
		return entities.Claim{}, err
	}

	logger.Info("faucet claim paid",
		"event", "faucet_claim_paid",
		"module", "governance/token-faucet",
		"layer", "application",
		"claimer", claimer.Hex(),
		"amount", claim.Amount.Dec(),
	)
	return claim, nil
}

func (s Service) HasClaimed(ctx context.Context, claimer common.Address) (bool, error) {
	return s.Claims.HasClaimed(ctx, claimer)
}

func (s Service) FaucetBalance(ctx context.Context) (uint256.Int, error) {
	return s.Ledger.BalanceOf(ctx, s.Faucet.Address)
}

func (s Service) ClaimAmount() uint256.Int {
	return s.Faucet.ClaimAmount
}

func (s Service) Info(ctx context.Context) (entities.Info, error) {
	balance, err := s.FaucetBalance(ctx)
	if err != nil {
		return entities.Info{}, err
	}
	return entities.Info{Faucet: s.Faucet, Balance: balance}, nil
}

func (s Service) appendClaimedEvent(ctx context.Context, claim entities.Claim) error {
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(map[string]any{
		"claimer": claim.Claimer.Hex(),
		"amount":  claim.Amount.Dec(),
	})
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventsv1.EventFaucetTokensClaimed,
		OccurredAt:       claim.ClaimedAt,
		SourceService:    "token-faucet",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "claimer",
		PartitionKey:     claim.Claimer.Hex(),
		Data:             payload,
	})
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC().Truncate(time.Second)
	}
	return s.Clock.Now().UTC().Truncate(time.Second)
}
