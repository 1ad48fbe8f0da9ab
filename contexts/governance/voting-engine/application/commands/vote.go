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

type VoteCommand struct {
	ProposalID uint64
	Voter      common.Address
	Support    bool
}

// VoteResult returns the recorded ballot and the proposal after tallying.
// Extended reports whether the ballot pushed the deadline.
type VoteResult struct {
	Vote     entities.VoteRecord
	Proposal entities.Proposal
	Extended bool
}

// VoteUseCase records one ballot per (proposal, voter), weighted by the
// voter's live token balance.
type VoteUseCase struct {
	Proposals ports.ProposalRepository
	Votes     ports.VoteRepository
	Ledger    ports.TokenLedger
	Tx        ports.Transactor
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Params    entities.Params
	Logger    *slog.Logger
}

func (uc VoteUseCase) Vote(ctx context.Context, cmd VoteCommand) (VoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	sink := eventSink{outbox: uc.Outbox, idgen: uc.IDGen}

	var result VoteResult
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		// Sampled under the transaction lock so gates see the execution time.
		now := resolveNow(uc.Clock)
		proposal, err := uc.Proposals.GetProposal(ctx, cmd.ProposalID)
		if err != nil {
			return err
		}
		if err := proposal.CheckVotable(now); err != nil {
			return err
		}
		if _, found, err := uc.Votes.GetVote(ctx, cmd.ProposalID, cmd.Voter); err != nil {
			return err
		} else if found {
			return domainerrors.ErrAlreadyVoted
		}

		// Zero-balance ballots are accepted and still consume the voter's slot.
		weight, err := uc.Ledger.BalanceOf(ctx, cmd.Voter)
		if err != nil {
			return err
		}
		if err := proposal.Tally(cmd.Support, weight); err != nil {
			return err
		}
		record := entities.VoteRecord{
			ProposalID: proposal.ID,
			Voter:      cmd.Voter,
			Support:    cmd.Support,
			Weight:     weight,
			CastAt:     now,
		}
		if err := uc.Votes.SaveVote(ctx, record); err != nil {
			return err
		}
		extended := proposal.ExtendForLowTurnout(now, uc.Params)
		if err := uc.Proposals.SaveProposal(ctx, proposal); err != nil {
			return err
		}

		if err := sink.appendProposalEvent(ctx, eventsv1.EventGovernanceVoted, proposal.ID, now, votedData(record)); err != nil {
			return err
		}
		if extended {
			if err := sink.appendProposalEvent(ctx, eventsv1.EventGovernanceDeadlineExtended, proposal.ID, now, deadlineExtendedData(proposal)); err != nil {
				return err
			}
		}
		result = VoteResult{Vote: record, Proposal: proposal, Extended: extended}
		return nil
	})
	if err != nil {
		if isRejection(err) {
			logger.Warn("vote rejected",
				"event", "governance_vote_rejected",
				"module", "governance/voting-engine",
				"layer", "application",
				"proposal_id", cmd.ProposalID,
				"voter", cmd.Voter.Hex(),
				"error", err.Error(),
			)
			return VoteResult{}, err
		}
		logger.Error("vote failed",
			"event", "governance_vote_failed",
			"module", "governance/voting-engine",
			"layer", "application",
			"proposal_id", cmd.ProposalID,
			"voter", cmd.Voter.Hex(),
			"error", err.Error(),
		)
		return VoteResult{}, err
	}

	logger.Info("vote recorded",
		"event", "governance_vote_recorded",
		"module", "governance/voting-engine",
		"layer", "application",
		"proposal_id", result.Vote.ProposalID,
		"voter", result.Vote.Voter.Hex(),
		"support", result.Vote.Support,
		"weight", result.Vote.Weight.Dec(),
	)
	if result.Extended {
		logger.Info("proposal deadline extended",
			"event", "governance_deadline_extended",
			"module", "governance/voting-engine",
			"layer", "application",
			"proposal_id", result.Proposal.ID,
			"new_deadline", result.Proposal.Deadline,
		)
	}
	return result, nil
}
