package entities

import (
	"testing"
	"time"

	domainerrors "securevote/contexts/governance/voting-engine/domain/errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var proposer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

func tokens(n uint64) uint256.Int {
	return scaled(n, 18)
}

func TestDefaultParams(t *testing.T) {
	params := DefaultParams()

	assert.Equal(t, "10000000000000000", params.CreationFee.Dec())
	assert.Equal(t, "100000000000000000000", params.ProposalThreshold.Dec())
	assert.Equal(t, "1000000000000000000000000", params.MinQuorum.Dec())
	assert.Equal(t, 72*time.Hour, params.VotingPeriod)
	assert.Equal(t, uint64(100_000), params.MinGasExecute)
}

func TestNewProposalDeadlines(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewProposal(1, proposer, "fund the audit", now, DefaultParams())

	assert.Equal(t, now.Add(72*time.Hour), p.Deadline)
	assert.Equal(t, now.Add(96*time.Hour), p.MaxDeadline)
	assert.False(t, p.Executed)
	assert.True(t, p.YesVotes.IsZero())
}

func TestProposalStatus(t *testing.T) {
	params := DefaultParams()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	base := NewProposal(1, proposer, "status", now, params)
	afterDeadline := base.Deadline

	tests := []struct {
		name   string
		mutate func(p *Proposal)
		at     time.Time
		want   ProposalStatus
	}{
		{name: "active before deadline", mutate: func(*Proposal) {}, at: now, want: ProposalStatusActive},
		{name: "failed without votes", mutate: func(*Proposal) {}, at: afterDeadline, want: ProposalStatusFailed},
		{
			name: "passed with quorum and majority",
			mutate: func(p *Proposal) {
				p.YesVotes = tokens(1_000_000)
			},
			at:   afterDeadline,
			want: ProposalStatusPassed,
		},
		{
			name: "failed on tie at quorum",
			mutate: func(p *Proposal) {
				p.YesVotes = tokens(500_000)
				p.NoVotes = tokens(500_000)
			},
			at:   afterDeadline,
			want: ProposalStatusFailed,
		},
		{
			name: "failed below quorum with majority",
			mutate: func(p *Proposal) {
				p.YesVotes = tokens(999_999)
			},
			at:   afterDeadline,
			want: ProposalStatusFailed,
		},
		{
			name: "executed is terminal",
			mutate: func(p *Proposal) {
				p.YesVotes = tokens(1_000_000)
				p.Executed = true
			},
			at:   afterDeadline.Add(time.Hour),
			want: ProposalStatusExecuted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			assert.Equal(t, tt.want, p.Status(tt.at, params.MinQuorum))
		})
	}
}

func TestCheckExecutableOrder(t *testing.T) {
	params := DefaultParams()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewProposal(1, proposer, "gates", now, params)

	assert.ErrorIs(t, p.CheckExecutable(now, params.MinQuorum), domainerrors.ErrVotingStillOpen)

	closed := p.Deadline
	assert.ErrorIs(t, p.CheckExecutable(closed, params.MinQuorum), domainerrors.ErrQuorumNotMet)

	p.NoVotes = tokens(1_000_000)
	assert.ErrorIs(t, p.CheckExecutable(closed, params.MinQuorum), domainerrors.ErrProposalRejected)

	p.YesVotes = tokens(1_000_001)
	require.NoError(t, p.CheckExecutable(closed, params.MinQuorum))

	p.Executed = true
	assert.ErrorIs(t, p.CheckExecutable(closed, params.MinQuorum), domainerrors.ErrAlreadyExecuted)
}

func TestCheckVotableClosesAtDeadline(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewProposal(1, proposer, "close", now, DefaultParams())

	require.NoError(t, p.CheckVotable(p.Deadline.Add(-time.Second)))
	assert.ErrorIs(t, p.CheckVotable(p.Deadline), domainerrors.ErrVotingClosed)
}

func TestTally(t *testing.T) {
	p := Proposal{}
	require.NoError(t, p.Tally(true, *uint256.NewInt(5)))
	require.NoError(t, p.Tally(false, *uint256.NewInt(3)))
	require.NoError(t, p.Tally(true, uint256.Int{}))

	assert.Equal(t, uint64(5), p.YesVotes.Uint64())
	assert.Equal(t, uint64(3), p.NoVotes.Uint64())

	p.YesVotes.SetAllOne()
	assert.ErrorIs(t, p.Tally(true, *uint256.NewInt(1)), domainerrors.ErrTallyOverflow)

	total := p.TotalVotes()
	assert.True(t, total.Eq(new(uint256.Int).SetAllOne()))
}

func TestExtendForLowTurnoutIsBoundedByMaxDeadline(t *testing.T) {
	params := DefaultParams()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewProposal(1, proposer, "extend", now, params)
	original := p.Deadline

	// Outside the window nothing happens.
	assert.False(t, p.ExtendForLowTurnout(original.Add(-13*time.Hour), params))
	assert.Equal(t, original, p.Deadline)

	// One hour before close: first extension.
	assert.True(t, p.ExtendForLowTurnout(original.Add(-time.Hour), params))
	assert.Equal(t, original.Add(12*time.Hour), p.Deadline)

	// Inside the new window: second extension reaches MaxDeadline exactly.
	assert.True(t, p.ExtendForLowTurnout(p.Deadline.Add(-time.Hour), params))
	assert.Equal(t, p.MaxDeadline, p.Deadline)

	// A third would pass MaxDeadline.
	assert.False(t, p.ExtendForLowTurnout(p.Deadline.Add(-time.Hour), params))
	assert.Equal(t, p.MaxDeadline, p.Deadline)
}

func TestExtendForLowTurnoutSkipsWhenQuorumMet(t *testing.T) {
	params := DefaultParams()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewProposal(1, proposer, "quorum", now, params)
	p.YesVotes = tokens(1_000_000)

	assert.False(t, p.ExtendForLowTurnout(p.Deadline.Add(-time.Hour), params))
}

func TestExtendForLowTurnoutWindowBoundaryIsInclusive(t *testing.T) {
	params := DefaultParams()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewProposal(1, proposer, "boundary", now, params)

	assert.True(t, p.ExtendForLowTurnout(p.Deadline.Add(-params.ExtensionWindow), params))
}
