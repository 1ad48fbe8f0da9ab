package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "securevote/contexts/governance/voting-engine/application"
	"securevote/contexts/governance/voting-engine/application/commands"
	"securevote/contexts/governance/voting-engine/domain/entities"
	domainerrors "securevote/contexts/governance/voting-engine/domain/errors"
	"securevote/contexts/governance/voting-engine/ports"

	"github.com/ethereum/go-ethereum/common"
)

// ProposalExecutor is satisfied by commands.ProposalUseCase.
type ProposalExecutor interface {
	ExecuteProposal(ctx context.Context, cmd commands.ExecuteProposalCommand) (entities.Proposal, error)
}

// ExecutionKeeper executes proposals that have closed with a passing result.
// It goes through the same command path as a manual execute call, so a race
// with a human caller resolves to ErrAlreadyExecuted.
type ExecutionKeeper struct {
	Proposals ports.ProposalRepository
	Executor  ProposalExecutor
	Clock     ports.Clock
	Metrics   ports.KeeperMetrics
	Params    entities.Params
	Caller    common.Address
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce scans every proposal page and executes the passed ones. Failures
// are collected and returned together after the scan finishes.
func (k ExecutionKeeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(k.Logger)
	limit := k.BatchSize
	if limit <= 0 {
		limit = 100
	}
	now := time.Now().UTC()
	if k.Clock != nil {
		now = k.Clock.Now().UTC()
	}

	var failures []error
	executed := 0
	for offset := 0; ; offset += limit {
		page, err := k.Proposals.ListProposals(ctx, offset, limit)
		if err != nil {
			logger.Error("governance keeper list failed",
				"event", "governance_keeper_list_failed",
				"module", "governance/voting-engine",
				"layer", "worker",
				"offset", offset,
				"error", err.Error(),
			)
			return err
		}
		for _, proposal := range page {
			if proposal.Status(now, k.Params.MinQuorum) != entities.ProposalStatusPassed {
				continue
			}
			_, err := k.Executor.ExecuteProposal(ctx, commands.ExecuteProposalCommand{
				ProposalID: proposal.ID,
				Caller:     k.Caller,
			})
			switch {
			case err == nil:
				executed++
				if k.Metrics != nil {
					k.Metrics.ProposalAutoExecuted()
				}
			case errors.Is(err, domainerrors.ErrAlreadyExecuted):
			default:
				logger.Error("governance keeper execute failed",
					"event", "governance_keeper_execute_failed",
					"module", "governance/voting-engine",
					"layer", "worker",
					"proposal_id", proposal.ID,
					"error", err.Error(),
				)
				if k.Metrics != nil {
					k.Metrics.ProposalAutoExecuteFailed()
				}
				failures = append(failures, err)
			}
		}
		if len(page) < limit {
			break
		}
	}

	if executed == 0 && len(failures) == 0 {
		logger.Debug("governance keeper found nothing to execute",
			"event", "governance_keeper_noop",
			"module", "governance/voting-engine",
			"layer", "worker",
		)
		return nil
	}
	logger.Info("governance keeper cycle completed",
		"event", "governance_keeper_completed",
		"module", "governance/voting-engine",
		"layer", "worker",
		"executed_count", executed,
		"failed_count", len(failures),
	)
	return errors.Join(failures...)
}
