package entities

import (
	"time"

	domainerrors "securevote/contexts/governance/voting-engine/domain/errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type ProposalStatus string

const (
	ProposalStatusActive   ProposalStatus = "Active"
	ProposalStatusPassed   ProposalStatus = "Passed"
	ProposalStatusFailed   ProposalStatus = "Failed"
	ProposalStatusExecuted ProposalStatus = "Executed"
)

// Proposal is a permanent governance record. Deadline only moves forward and
// never past MaxDeadline; Executed flips to true at most once.
type Proposal struct {
	ID          uint64
	Proposer    common.Address
	Description string
	Deadline    time.Time
	MaxDeadline time.Time
	YesVotes    uint256.Int
	NoVotes     uint256.Int
	Executed    bool
	CreatedAt   time.Time
}

func NewProposal(id uint64, proposer common.Address, description string, now time.Time, params Params) Proposal {
	deadline := now.Add(params.VotingPeriod)
	return Proposal{
		ID:          id,
		Proposer:    proposer,
		Description: description,
		Deadline:    deadline,
		MaxDeadline: deadline.Add(params.MaxExtension),
		CreatedAt:   now,
	}
}

// TotalVotes saturates at the max uint256 instead of wrapping.
func (p Proposal) TotalVotes() uint256.Int {
	var total uint256.Int
	if _, overflow := total.AddOverflow(&p.YesVotes, &p.NoVotes); overflow {
		total.SetAllOne()
	}
	return total
}

func (p Proposal) MeetsQuorum(quorum uint256.Int) bool {
	total := p.TotalVotes()
	return !total.Lt(&quorum)
}

func (p Proposal) IsOpen(now time.Time) bool {
	return now.Before(p.Deadline)
}

// Status derives the lifecycle state from stored fields and the current time.
func (p Proposal) Status(now time.Time, quorum uint256.Int) ProposalStatus {
	switch {
	case p.Executed:
		return ProposalStatusExecuted
	case p.IsOpen(now):
		return ProposalStatusActive
	case p.MeetsQuorum(quorum) && p.YesVotes.Gt(&p.NoVotes):
		return ProposalStatusPassed
	default:
		return ProposalStatusFailed
	}
}

// CheckVotable returns ErrVotingClosed once now has reached the deadline.
func (p Proposal) CheckVotable(now time.Time) error {
	if !p.IsOpen(now) {
		return domainerrors.ErrVotingClosed
	}
	return nil
}

// CheckExecutable applies the execution gates in order: open, executed,
// quorum, majority.
func (p Proposal) CheckExecutable(now time.Time, quorum uint256.Int) error {
	if p.IsOpen(now) {
		return domainerrors.ErrVotingStillOpen
	}
	if p.Executed {
		return domainerrors.ErrAlreadyExecuted
	}
	if !p.MeetsQuorum(quorum) {
		return domainerrors.ErrQuorumNotMet
	}
	if !p.YesVotes.Gt(&p.NoVotes) {
		return domainerrors.ErrProposalRejected
	}
	return nil
}

// Tally adds weight to the chosen side.
func (p *Proposal) Tally(support bool, weight uint256.Int) error {
	side := &p.NoVotes
	if support {
		side = &p.YesVotes
	}
	var next uint256.Int
	if _, overflow := next.AddOverflow(side, &weight); overflow {
		return domainerrors.ErrTallyOverflow
	}
	*side = next
	return nil
}

// ExtendForLowTurnout pushes the deadline by one extension period when the
// vote landed inside the extension window, quorum is still unmet, and the
// pushed deadline stays within MaxDeadline. It reports whether it extended.
func (p *Proposal) ExtendForLowTurnout(now time.Time, params Params) bool {
	if params.ExtensionPeriod <= 0 {
		return false
	}
	if p.Deadline.Sub(now) > params.ExtensionWindow {
		return false
	}
	if p.MeetsQuorum(params.MinQuorum) {
		return false
	}
	next := p.Deadline.Add(params.ExtensionPeriod)
	if next.After(p.MaxDeadline) {
		return false
	}
	p.Deadline = next
	return true
}

// VoteRecord is the immutable (proposal, voter) ballot.
type VoteRecord struct {
	ProposalID uint64
	Voter      common.Address
	Support    bool
	Weight     uint256.Int
	CastAt     time.Time
}
