package commands

import (
	"context"
	"errors"
	"log/slog"

	application "securevote/contexts/governance/voting-engine/application"
	"securevote/contexts/governance/voting-engine/domain/entities"
	domainerrors "securevote/contexts/governance/voting-engine/domain/errors"
	"securevote/contexts/governance/voting-engine/ports"
	eventsv1 "securevote/contracts/events/v1"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// CreateProposalCommand carries the proposer and the native value attached to
// the call. The whole value is forwarded to the treasury, not only the fee.
type CreateProposalCommand struct {
	Proposer    common.Address
	Description string
	Value       uint256.Int
}

// ExecuteProposalCommand marks a passed proposal executed. Gas is the
// caller-declared budget; zero means none was declared.
type ExecuteProposalCommand struct {
	ProposalID uint64
	Caller     common.Address
	Gas        uint64
}

// ProposalUseCase owns proposal creation and execution.
type ProposalUseCase struct {
	Proposals ports.ProposalRepository
	Settings  ports.SettingsRepository
	Ledger    ports.TokenLedger
	Fees      ports.FeeCollector
	Tx        ports.Transactor
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Engine    entities.Engine
	Params    entities.Params
	Logger    *slog.Logger
}

// CreateProposal checks the fee, the proposer's holdings and the treasury link
// in that order, then stores the proposal and forwards the attached value.
func (uc ProposalUseCase) CreateProposal(ctx context.Context, cmd CreateProposalCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("proposal create processing started",
		"event", "governance_proposal_create_started",
		"module", "governance/voting-engine",
		"layer", "application",
		"proposer", cmd.Proposer.Hex(),
		"value", cmd.Value.Dec(),
	)

	if cmd.Value.Lt(&uc.Params.CreationFee) {
		logger.Warn("proposal create rejected",
			"event", "governance_proposal_create_rejected",
			"module", "governance/voting-engine",
			"layer", "application",
			"proposer", cmd.Proposer.Hex(),
			"error", domainerrors.ErrFeeRequired.Error(),
		)
		return entities.Proposal{}, domainerrors.ErrFeeRequired
	}

	sink := eventSink{outbox: uc.Outbox, idgen: uc.IDGen}
	var proposal entities.Proposal
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		now := resolveNow(uc.Clock)
		balance, err := uc.Ledger.BalanceOf(ctx, cmd.Proposer)
		if err != nil {
			return err
		}
		if balance.Lt(&uc.Params.ProposalThreshold) {
			return domainerrors.ErrInsufficientTokens
		}
		treasury, err := uc.Settings.GetTreasury(ctx)
		if err != nil {
			return err
		}
		if treasury == (common.Address{}) {
			return domainerrors.ErrTreasuryNotSet
		}

		id, err := uc.Proposals.NextProposalID(ctx)
		if err != nil {
			return err
		}
		proposal = entities.NewProposal(id, cmd.Proposer, cmd.Description, now, uc.Params)
		if err := uc.Proposals.SaveProposal(ctx, proposal); err != nil {
			return err
		}
		if err := uc.Fees.Deposit(ctx, treasury, uc.Engine.Address, cmd.Value); err != nil {
			return err
		}
		return sink.appendProposalEvent(ctx, eventsv1.EventGovernanceProposalCreated, proposal.ID, now, proposalCreatedData(proposal))
	})
	if err != nil {
		if isRejection(err) {
			logger.Warn("proposal create rejected",
				"event", "governance_proposal_create_rejected",
				"module", "governance/voting-engine",
				"layer", "application",
				"proposer", cmd.Proposer.Hex(),
				"error", err.Error(),
			)
			return entities.Proposal{}, err
		}
		logger.Error("proposal create failed",
			"event", "governance_proposal_create_failed",
			"module", "governance/voting-engine",
			"layer", "application",
			"proposer", cmd.Proposer.Hex(),
			"error", err.Error(),
		)
		return entities.Proposal{}, err
	}

	logger.Info("proposal created",
		"event", "governance_proposal_created",
		"module", "governance/voting-engine",
		"layer", "application",
		"proposal_id", proposal.ID,
		"proposer", proposal.Proposer.Hex(),
		"deadline", proposal.Deadline,
	)
	return proposal, nil
}

// ExecuteProposal applies the execution gates and flips Executed. Anyone may
// call it; execution carries no on-chain payload.
func (uc ProposalUseCase) ExecuteProposal(ctx context.Context, cmd ExecuteProposalCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	sink := eventSink{outbox: uc.Outbox, idgen: uc.IDGen}

	var proposal entities.Proposal
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		now := resolveNow(uc.Clock)
		current, err := uc.Proposals.GetProposal(ctx, cmd.ProposalID)
		if err != nil {
			return err
		}
		if cmd.Gas != 0 && cmd.Gas < uc.Params.MinGasExecute {
			return domainerrors.ErrInsufficientGas
		}
		if err := current.CheckExecutable(now, uc.Params.MinQuorum); err != nil {
			return err
		}
		current.Executed = true
		if err := uc.Proposals.SaveProposal(ctx, current); err != nil {
			return err
		}
		proposal = current
		return sink.appendProposalEvent(ctx, eventsv1.EventGovernanceProposalExecuted, current.ID, now, map[string]any{
			"proposal_id": current.ID,
			"executed_by": cmd.Caller.Hex(),
		})
	})
	if err != nil {
		if isRejection(err) {
			logger.Warn("proposal execute rejected",
				"event", "governance_proposal_execute_rejected",
				"module", "governance/voting-engine",
				"layer", "application",
				"proposal_id", cmd.ProposalID,
				"caller", cmd.Caller.Hex(),
				"error", err.Error(),
			)
			return entities.Proposal{}, err
		}
		logger.Error("proposal execute failed",
			"event", "governance_proposal_execute_failed",
			"module", "governance/voting-engine",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"error", err.Error(),
		)
		return entities.Proposal{}, err
	}

	logger.Info("proposal executed",
		"event", "governance_proposal_executed",
		"module", "governance/voting-engine",
		"layer", "application",
		"proposal_id", proposal.ID,
		"caller", cmd.Caller.Hex(),
	)
	return proposal, nil
}

var rejections = []error{
	domainerrors.ErrUnknownProposal,
	domainerrors.ErrVotingClosed,
	domainerrors.ErrAlreadyVoted,
	domainerrors.ErrFeeRequired,
	domainerrors.ErrInsufficientTokens,
	domainerrors.ErrVotingStillOpen,
	domainerrors.ErrAlreadyExecuted,
	domainerrors.ErrQuorumNotMet,
	domainerrors.ErrProposalRejected,
	domainerrors.ErrTreasuryNotSet,
	domainerrors.ErrTreasuryLocked,
	domainerrors.ErrInvalidTreasury,
	domainerrors.ErrUnauthorized,
	domainerrors.ErrInsufficientGas,
	domainerrors.ErrTallyOverflow,
}

// isRejection separates caller-visible rule violations from infra failures.
func isRejection(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
