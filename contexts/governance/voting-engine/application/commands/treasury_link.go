package commands

import (
	"context"
	"log/slog"

	application "securevote/contexts/governance/voting-engine/application"
	"securevote/contexts/governance/voting-engine/domain/entities"
	domainerrors "securevote/contexts/governance/voting-engine/domain/errors"
	"securevote/contexts/governance/voting-engine/ports"
	eventsv1 "securevote/contracts/events/v1"

	"github.com/ethereum/go-ethereum/common"
)

type SetTreasuryCommand struct {
	Caller   common.Address
	Treasury common.Address
}

// AdminUseCase holds the owner-gated engine configuration.
type AdminUseCase struct {
	Proposals ports.ProposalRepository
	Settings  ports.SettingsRepository
	Fees      ports.FeeCollector
	Tx        ports.Transactor
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Engine    entities.Engine
	Logger    *slog.Logger
}

// SetTreasury links the fee destination. The link can be changed freely until
// the first proposal exists; after that only re-setting the same address is
// accepted, as a no-op.
func (uc AdminUseCase) SetTreasury(ctx context.Context, cmd SetTreasuryCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.validate(cmd); err != nil {
		logger.Warn("treasury link rejected",
			"event", "governance_treasury_link_rejected",
			"module", "governance/voting-engine",
			"layer", "application",
			"caller", cmd.Caller.Hex(),
			"treasury", cmd.Treasury.Hex(),
			"error", err.Error(),
		)
		return err
	}

	sink := eventSink{outbox: uc.Outbox, idgen: uc.IDGen}
	changed := false
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		now := resolveNow(uc.Clock)
		current, err := uc.Settings.GetTreasury(ctx)
		if err != nil {
			return err
		}
		if current == cmd.Treasury {
			return nil
		}
		count, err := uc.Proposals.ProposalCount(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return domainerrors.ErrTreasuryLocked
		}
		if err := uc.Settings.SetTreasury(ctx, cmd.Treasury); err != nil {
			return err
		}
		changed = true
		return sink.append(ctx, eventsv1.EventGovernanceTreasuryLinked, "engine", uc.Engine.Address.Hex(), now, map[string]any{
			"treasury": cmd.Treasury.Hex(),
			"previous": current.Hex(),
		})
	})
	if err != nil {
		if isRejection(err) {
			logger.Warn("treasury link rejected",
				"event", "governance_treasury_link_rejected",
				"module", "governance/voting-engine",
				"layer", "application",
				"treasury", cmd.Treasury.Hex(),
				"error", err.Error(),
			)
			return err
		}
		logger.Error("treasury link failed",
			"event", "governance_treasury_link_failed",
			"module", "governance/voting-engine",
			"layer", "application",
			"treasury", cmd.Treasury.Hex(),
			"error", err.Error(),
		)
		return err
	}

	if changed {
		logger.Info("treasury linked",
			"event", "governance_treasury_linked",
			"module", "governance/voting-engine",
			"layer", "application",
			"treasury", cmd.Treasury.Hex(),
		)
	}
	return nil
}

func (uc AdminUseCase) validate(cmd SetTreasuryCommand) error {
	if cmd.Caller != uc.Engine.Owner {
		return domainerrors.ErrUnauthorized
	}
	if cmd.Treasury == (common.Address{}) {
		return domainerrors.ErrInvalidTreasury
	}
	if uc.Fees != nil && !uc.Fees.IsTreasury(cmd.Treasury) {
		return domainerrors.ErrInvalidTreasury
	}
	return nil
}
