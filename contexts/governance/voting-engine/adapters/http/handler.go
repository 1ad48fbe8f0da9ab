package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"securevote/contexts/governance/voting-engine/application/commands"
	"securevote/contexts/governance/voting-engine/application/queries"
	domainerrors "securevote/contexts/governance/voting-engine/domain/errors"
	httptransport "securevote/contexts/governance/voting-engine/transport/http"
	"securevote/internal/shared/chain"
	"securevote/internal/shared/units"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/samber/lo"
)

type Handler struct {
	Proposals commands.ProposalUseCase
	Votes     commands.VoteUseCase
	Admin     commands.AdminUseCase
	Queries   queries.ProposalQueryUseCase
	Logger    *slog.Logger
}

func (h Handler) ParamsHandler(ctx context.Context) (httptransport.ParamsResponse, error) {
	treasury, err := h.Queries.Treasury(ctx)
	if err != nil {
		return httptransport.ParamsResponse{}, err
	}
	params := h.Queries.EngineParams()
	engine := h.Queries.EngineIdentity()
	return httptransport.ParamsResponse{
		EngineAddress:       engine.Address.Hex(),
		Owner:               engine.Owner.Hex(),
		Treasury:            treasury.Hex(),
		CreationFeeWei:      units.FormatMinor(params.CreationFee),
		ProposalThreshold:   units.FormatMinor(params.ProposalThreshold),
		MinQuorum:           units.FormatMinor(params.MinQuorum),
		VotingPeriodSeconds: int64(params.VotingPeriod.Seconds()),
		ExtensionWindowSecs: int64(params.ExtensionWindow.Seconds()),
		ExtensionPeriodSecs: int64(params.ExtensionPeriod.Seconds()),
		MaxExtensionSeconds: int64(params.MaxExtension.Seconds()),
		MinGasExecute:       params.MinGasExecute,
	}, nil
}

func (h Handler) SetTreasuryHandler(
	ctx context.Context,
	caller common.Address,
	req httptransport.SetTreasuryRequest,
) (httptransport.TreasuryLinkResponse, error) {
	treasury, err := parseAddress("treasury", req.Treasury)
	if err != nil {
		return httptransport.TreasuryLinkResponse{}, err
	}
	if err := h.Admin.SetTreasury(ctx, commands.SetTreasuryCommand{
		Caller:   caller,
		Treasury: treasury,
	}); err != nil {
		return httptransport.TreasuryLinkResponse{}, err
	}
	return httptransport.TreasuryLinkResponse{Treasury: treasury.Hex()}, nil
}

func (h Handler) ListProposalsHandler(ctx context.Context, offset string, limit string) (httptransport.ProposalListResponse, error) {
	off, err := parseOptionalInt("offset", offset)
	if err != nil {
		return httptransport.ProposalListResponse{}, err
	}
	lim, err := parseOptionalInt("limit", limit)
	if err != nil {
		return httptransport.ProposalListResponse{}, err
	}
	page, err := h.Queries.ListProposals(ctx, off, lim)
	if err != nil {
		return httptransport.ProposalListResponse{}, err
	}
	return httptransport.ProposalListResponse{
		Items:         lo.Map(page.Items, func(item queries.ProposalView, _ int) httptransport.ProposalResponse { return mapProposal(item) }),
		ProposalCount: page.Total,
		Offset:        page.Offset,
		Limit:         page.Limit,
	}, nil
}

func (h Handler) CreateProposalHandler(
	ctx context.Context,
	caller common.Address,
	req httptransport.CreateProposalRequest,
) (httptransport.ProposalResponse, error) {
	// An omitted value is a zero payment and fails the fee check.
	var value uint256.Int
	if strings.TrimSpace(req.ValueWei) != "" {
		parsed, err := parseAmount("value_wei", req.ValueWei)
		if err != nil {
			return httptransport.ProposalResponse{}, err
		}
		value = parsed
	}
	proposal, err := h.Proposals.CreateProposal(ctx, commands.CreateProposalCommand{
		Proposer:    caller,
		Description: req.Description,
		Value:       value,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	view, err := h.Queries.GetProposal(ctx, proposal.ID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return mapProposal(view), nil
}

func (h Handler) GetProposalHandler(ctx context.Context, proposalID string) (httptransport.ProposalResponse, error) {
	id, err := parseProposalID(proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	view, err := h.Queries.GetProposal(ctx, id)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return mapProposal(view), nil
}

func (h Handler) ProposalStatusHandler(ctx context.Context, proposalID string) (httptransport.ProposalStatusResponse, error) {
	id, err := parseProposalID(proposalID)
	if err != nil {
		return httptransport.ProposalStatusResponse{}, err
	}
	status, err := h.Queries.GetProposalStatus(ctx, id)
	if err != nil {
		return httptransport.ProposalStatusResponse{}, err
	}
	return httptransport.ProposalStatusResponse{ID: id, Status: string(status)}, nil
}

func (h Handler) VoteHandler(
	ctx context.Context,
	caller common.Address,
	proposalID string,
	req httptransport.VoteRequest,
) (httptransport.VoteResponse, error) {
	id, err := parseProposalID(proposalID)
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	// A ballot is final, so an omitted choice is never read as a no.
	if req.Support == nil {
		return httptransport.VoteResponse{}, fmt.Errorf("%w: support is required", domainerrors.ErrInvalidInput)
	}
	result, err := h.Votes.Vote(ctx, commands.VoteCommand{
		ProposalID: id,
		Voter:      caller,
		Support:    *req.Support,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		ProposalID: result.Vote.ProposalID,
		Voter:      result.Vote.Voter.Hex(),
		Support:    result.Vote.Support,
		Weight:     units.FormatMinor(result.Vote.Weight),
		CastAt:     result.Vote.CastAt,
		YesVotes:   units.FormatMinor(result.Proposal.YesVotes),
		NoVotes:    units.FormatMinor(result.Proposal.NoVotes),
		Deadline:   result.Proposal.Deadline,
		Extended:   result.Extended,
	}, nil
}

// VoteStatusHandler returns 404 for unknown proposals even though HasVoted
// itself answers false for any id.
func (h Handler) VoteStatusHandler(ctx context.Context, proposalID string, voter string) (httptransport.VoteStatusResponse, error) {
	id, err := parseProposalID(proposalID)
	if err != nil {
		return httptransport.VoteStatusResponse{}, err
	}
	addr, err := parseAddress("address", voter)
	if err != nil {
		return httptransport.VoteStatusResponse{}, err
	}
	if _, err := h.Queries.GetProposal(ctx, id); err != nil {
		return httptransport.VoteStatusResponse{}, err
	}
	record, found, err := h.Queries.GetVote(ctx, id, addr)
	if err != nil {
		return httptransport.VoteStatusResponse{}, err
	}
	resp := httptransport.VoteStatusResponse{
		ProposalID: id,
		Voter:      addr.Hex(),
		HasVoted:   found,
	}
	if found {
		resp.Support = lo.ToPtr(record.Support)
		resp.Weight = units.FormatMinor(record.Weight)
		resp.CastAt = lo.ToPtr(record.CastAt)
	}
	return resp, nil
}

func (h Handler) ExecuteProposalHandler(
	ctx context.Context,
	caller common.Address,
	proposalID string,
	req httptransport.ExecuteProposalRequest,
) (httptransport.ProposalResponse, error) {
	id, err := parseProposalID(proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	if _, err := h.Proposals.ExecuteProposal(ctx, commands.ExecuteProposalCommand{
		ProposalID: id,
		Caller:     caller,
		Gas:        req.Gas,
	}); err != nil {
		return httptransport.ProposalResponse{}, err
	}
	view, err := h.Queries.GetProposal(ctx, id)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return mapProposal(view), nil
}

func mapProposal(view queries.ProposalView) httptransport.ProposalResponse {
	p := view.Proposal
	return httptransport.ProposalResponse{
		ID:          p.ID,
		Proposer:    p.Proposer.Hex(),
		Description: p.Description,
		Deadline:    p.Deadline,
		MaxDeadline: p.MaxDeadline,
		YesVotes:    units.FormatMinor(p.YesVotes),
		NoVotes:     units.FormatMinor(p.NoVotes),
		Executed:    p.Executed,
		Status:      string(view.Status),
		CreatedAt:   p.CreatedAt,
		StatusAsOf:  view.AsOf,
	}
}

func parseProposalID(value string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: proposal id must be an unsigned integer", domainerrors.ErrInvalidInput)
	}
	return id, nil
}

func parseOptionalInt(field string, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domainerrors.ErrInvalidInput, field)
	}
	return n, nil
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
		return uint256.Int{}, fmt.Errorf("%w: %s must be a base-10 amount in wei", domainerrors.ErrInvalidInput, field)
	}
	return amount, nil
}
