package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	faucetentities "securevote/contexts/governance/token-faucet/domain/entities"
	faucetdomainerrors "securevote/contexts/governance/token-faucet/domain/errors"
	"securevote/contexts/governance/voting-engine/domain/entities"
	domainerrors "securevote/contexts/governance/voting-engine/domain/errors"
	eventsv1 "securevote/contracts/events/v1"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	bob   = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
)

func TestWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.SetTokenBalance(ctx, alice, *uint256.NewInt(10)))

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, store.SetTokenBalance(ctx, alice, *uint256.NewInt(3)))
		require.NoError(t, store.SetTokenBalance(ctx, bob, *uint256.NewInt(7)))
		require.NoError(t, store.SetTotalSupply(ctx, *uint256.NewInt(99)))
		require.NoError(t, store.SetTreasury(ctx, bob))
		require.NoError(t, store.AppendOutbox(ctx, eventsv1.Envelope{EventID: "evt-1", EventType: eventsv1.EventTokenTransfer}))
		_, err := store.NextProposalID(ctx)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	balance, _ := store.GetTokenBalance(ctx, alice)
	assert.Equal(t, uint64(10), balance.Uint64())
	balance, _ = store.GetTokenBalance(ctx, bob)
	assert.True(t, balance.IsZero())
	supply, _ := store.GetTotalSupply(ctx)
	assert.True(t, supply.IsZero())
	treasury, _ := store.GetTreasury(ctx)
	assert.Equal(t, common.Address{}, treasury)
	assert.Empty(t, store.OutboxEvents())

	id, err := store.NextProposalID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
}

func TestWithinTxRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	assert.Panics(t, func() {
		_ = store.WithinTx(ctx, func(ctx context.Context) error {
			_ = store.SetNativeBalance(ctx, alice, *uint256.NewInt(5))
			panic("unexpected")
		})
	})

	balance, _ := store.GetNativeBalance(ctx, alice)
	assert.True(t, balance.IsZero())

	// The lock was released.
	require.NoError(t, store.SetNativeBalance(ctx, alice, *uint256.NewInt(1)))
}

func TestNestedWithinTxJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.WithinTx(ctx, func(ctx context.Context) error {
		if err := store.WithinTx(ctx, func(ctx context.Context) error {
			return store.SetTokenBalance(ctx, alice, *uint256.NewInt(4))
		}); err != nil {
			return err
		}
		return errors.New("outer fails")
	})
	require.Error(t, err)

	balance, _ := store.GetTokenBalance(ctx, alice)
	assert.True(t, balance.IsZero(), "inner write must roll back with the outer transaction")
}

func TestProposalsAndVotes(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := store.GetProposal(ctx, 1)
	require.ErrorIs(t, err, domainerrors.ErrUnknownProposal)

	for i := 0; i < 3; i++ {
		id, err := store.NextProposalID(ctx)
		require.NoError(t, err)
		require.NoError(t, store.SaveProposal(ctx, entities.NewProposal(id, alice, "p", now, entities.DefaultParams())))
	}
	count, err := store.ProposalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	page, err := store.ListProposals(ctx, 1, 5)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, uint64(2), page[0].ID)
	assert.Equal(t, uint64(3), page[1].ID)

	vote := entities.VoteRecord{ProposalID: 1, Voter: bob, Support: true, Weight: *uint256.NewInt(9), CastAt: now}
	require.NoError(t, store.SaveVote(ctx, vote))
	require.ErrorIs(t, store.SaveVote(ctx, vote), domainerrors.ErrConflict)

	got, found, err := store.GetVote(ctx, 1, bob)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(9), got.Weight.Uint64())

	_, found, err = store.GetVote(ctx, 2, bob)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClaimsAreWriteOnce(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	claim := faucetentities.Claim{Claimer: alice, Amount: *uint256.NewInt(1)}

	require.NoError(t, store.SaveClaim(ctx, claim))
	require.ErrorIs(t, store.SaveClaim(ctx, claim), faucetdomainerrors.ErrClaimConflict)

	claimed, err := store.HasClaimed(ctx, alice)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestOutboxOrderingAndPublish(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.AppendOutbox(ctx, eventsv1.Envelope{
			EventID:    id,
			EventType:  eventsv1.EventGovernanceVoted,
			OccurredAt: at,
		}))
	}
	// Re-appending the same envelope is a no-op; a different payload conflicts.
	require.NoError(t, store.AppendOutbox(ctx, eventsv1.Envelope{EventID: "a", EventType: eventsv1.EventGovernanceVoted, OccurredAt: at}))
	require.ErrorIs(t, store.AppendOutbox(ctx, eventsv1.Envelope{EventID: "a", EventType: eventsv1.EventTokenTransfer, OccurredAt: at}), domainerrors.ErrConflict)

	pending, err := store.ListPendingOutbox(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "c", pending[0].OutboxID)
	assert.Equal(t, "a", pending[1].OutboxID)

	require.NoError(t, store.MarkOutboxPublished(ctx, "c", at))
	pending, err = store.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].OutboxID)

	require.ErrorIs(t, store.MarkOutboxPublished(ctx, "missing", at), domainerrors.ErrConflict)
	assert.Len(t, store.OutboxEvents(), 3)
}

func TestClockPinning(t *testing.T) {
	store := NewStore()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store.SetNow(at)
	assert.Equal(t, at, store.Now())

	store.Advance(90 * time.Minute)
	assert.Equal(t, at.Add(90*time.Minute), store.Now())

	id, err := store.NewID(context.Background())
	require.NoError(t, err)
	assert.Len(t, id, 36)
}
