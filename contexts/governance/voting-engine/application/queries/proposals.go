package queries

import (
	"context"
	"time"

	"securevote/contexts/governance/voting-engine/domain/entities"
	"securevote/contexts/governance/voting-engine/ports"

	"github.com/ethereum/go-ethereum/common"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ProposalView pairs a stored proposal with its status evaluated at AsOf.
type ProposalView struct {
	Proposal entities.Proposal
	Status   entities.ProposalStatus
	AsOf     time.Time
}

type ProposalPage struct {
	Items  []ProposalView
	Total  uint64
	Offset int
	Limit  int
}

type ProposalQueryUseCase struct {
	Proposals ports.ProposalRepository
	Votes     ports.VoteRepository
	Settings  ports.SettingsRepository
	Clock     ports.Clock
	Engine    entities.Engine
	Params    entities.Params
}

func (uc ProposalQueryUseCase) GetProposal(ctx context.Context, proposalID uint64) (ProposalView, error) {
	proposal, err := uc.Proposals.GetProposal(ctx, proposalID)
	if err != nil {
		return ProposalView{}, err
	}
	return uc.view(proposal, uc.now()), nil
}

func (uc ProposalQueryUseCase) GetProposalStatus(ctx context.Context, proposalID uint64) (entities.ProposalStatus, error) {
	view, err := uc.GetProposal(ctx, proposalID)
	if err != nil {
		return "", err
	}
	return view.Status, nil
}

func (uc ProposalQueryUseCase) ProposalCount(ctx context.Context) (uint64, error) {
	return uc.Proposals.ProposalCount(ctx)
}

// ListProposals pages proposals in id order.
func (uc ProposalQueryUseCase) ListProposals(ctx context.Context, offset int, limit int) (ProposalPage, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	total, err := uc.Proposals.ProposalCount(ctx)
	if err != nil {
		return ProposalPage{}, err
	}
	proposals, err := uc.Proposals.ListProposals(ctx, offset, limit)
	if err != nil {
		return ProposalPage{}, err
	}
	now := uc.now()
	items := make([]ProposalView, 0, len(proposals))
	for _, proposal := range proposals {
		items = append(items, uc.view(proposal, now))
	}
	return ProposalPage{Items: items, Total: total, Offset: offset, Limit: limit}, nil
}

// HasVoted answers for any id; unknown proposals simply have no ballots.
func (uc ProposalQueryUseCase) HasVoted(ctx context.Context, proposalID uint64, voter common.Address) (bool, error) {
	_, found, err := uc.Votes.GetVote(ctx, proposalID, voter)
	return found, err
}

func (uc ProposalQueryUseCase) GetVote(ctx context.Context, proposalID uint64, voter common.Address) (entities.VoteRecord, bool, error) {
	return uc.Votes.GetVote(ctx, proposalID, voter)
}

func (uc ProposalQueryUseCase) Treasury(ctx context.Context) (common.Address, error) {
	return uc.Settings.GetTreasury(ctx)
}

func (uc ProposalQueryUseCase) EngineParams() entities.Params {
	return uc.Params
}

func (uc ProposalQueryUseCase) EngineIdentity() entities.Engine {
	return uc.Engine
}

func (uc ProposalQueryUseCase) view(proposal entities.Proposal, now time.Time) ProposalView {
	return ProposalView{
		Proposal: proposal,
		Status:   proposal.Status(now, uc.Params.MinQuorum),
		AsOf:     now,
	}
}

func (uc ProposalQueryUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC().Truncate(time.Second)
	}
	return uc.Clock.Now().UTC().Truncate(time.Second)
}
