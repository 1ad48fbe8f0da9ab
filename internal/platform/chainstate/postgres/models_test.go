package postgres

import (
	"testing"
	"time"

	"securevote/contexts/governance/voting-engine/domain/entities"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountScan(t *testing.T) {
	ceiling := new(uint256.Int).SetAllOne()

	tests := []struct {
		name string
		src  any
		want string
	}{
		{name: "numeric text", src: "1000000000000000000000000", want: "1000000000000000000000000"},
		{name: "bytes", src: []byte("42"), want: "42"},
		{name: "int64", src: int64(7), want: "7"},
		{name: "null", src: nil, want: "0"},
		{name: "trailing zero fraction", src: "15.0", want: "15"},
		{name: "max uint256", src: ceiling.Dec(), want: ceiling.Dec()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a amount
			require.NoError(t, a.Scan(tt.src))
			got := a.Int()
			assert.Equal(t, tt.want, got.Dec())
		})
	}
}

func TestAmountScanRejectsInvalid(t *testing.T) {
	var a amount
	assert.Error(t, a.Scan(int64(-1)))
	assert.Error(t, a.Scan("1.5"))
	assert.Error(t, a.Scan(3.14))
}

func TestAmountValue(t *testing.T) {
	v, err := newAmount(*uint256.NewInt(1234)).Value()
	require.NoError(t, err)
	assert.Equal(t, "1234", v)
}

func TestProposalModelKeepsEveryField(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	proposal := entities.NewProposal(3, common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), "audit", now, entities.DefaultParams())
	proposal.YesVotes = *uint256.NewInt(11)
	proposal.Executed = true

	assert.Equal(t, proposal, proposalModelFromEntity(proposal).toEntity())
}
