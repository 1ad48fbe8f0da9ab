package deployment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tokenerrors "securevote/contexts/governance/governance-token/domain/errors"
	tokenports "securevote/contexts/governance/governance-token/ports"
	faucetdomainerrors "securevote/contexts/governance/token-faucet/domain/errors"
	treasuryerrors "securevote/contexts/governance/treasury/domain/errors"
	treasuryports "securevote/contexts/governance/treasury/ports"
	"securevote/contexts/governance/voting-engine/application/commands"
	votingentities "securevote/contexts/governance/voting-engine/domain/entities"
	votingerrors "securevote/contexts/governance/voting-engine/domain/errors"
	votingports "securevote/contexts/governance/voting-engine/ports"
	eventsv1 "securevote/contracts/events/v1"
	"securevote/internal/platform/chainstate/memory"
	"securevote/internal/shared/units"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	genesisTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	alice       = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	bob         = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	carol       = common.HexToAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906")
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []votingports.EventEnvelope
	fail   error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event votingports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

// newTestDeployment boots a deployment whose owner keeps the whole initial
// supply unless the faucet funding is overridden.
func newTestDeployment(t *testing.T, mutate func(*Settings)) (*Deployment, *memory.Store, *recordingPublisher) {
	t.Helper()
	settings := DefaultSettings()
	settings.FaucetFunding = uint256.Int{}
	if mutate != nil {
		mutate(&settings)
	}
	publisher := &recordingPublisher{}
	d, store, err := NewInMemory(settings, publisher, nil)
	require.NoError(t, err)
	store.SetNow(genesisTime)
	require.NoError(t, d.Genesis(context.Background()))
	return d, store, publisher
}

func gt(value string) uint256.Int {
	return units.MustParseUnits(value)
}

func createProposal(t *testing.T, d *Deployment, proposer common.Address, description string) votingentities.Proposal {
	t.Helper()
	proposal, err := d.Governance.Proposals.CreateProposal(context.Background(), commands.CreateProposalCommand{
		Proposer:    proposer,
		Description: description,
		Value:       gt("0.01"),
	})
	require.NoError(t, err)
	return proposal
}

func transfer(t *testing.T, d *Deployment, from common.Address, to common.Address, amount string) {
	t.Helper()
	_, err := d.Token.Service.Transfer(context.Background(), tokenports.TransferInput{From: from, To: to, Amount: gt(amount)})
	require.NoError(t, err)
}

func assertConservation(t *testing.T, d *Deployment, store *memory.Store) {
	t.Helper()
	var sum uint256.Int
	for _, balance := range store.TokenBalances() {
		sum.Add(&sum, &balance)
	}
	supply, err := d.Token.Service.TotalSupply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, supply.Dec(), sum.Dec())
}

func eventTypes(store *memory.Store) []string {
	events := store.OutboxEvents()
	out := make([]string, 0, len(events))
	for _, event := range events {
		out = append(out, event.EventType)
	}
	return out
}

func TestDeriveAddressesFollowsDeploymentOrder(t *testing.T) {
	addrs := DeriveAddresses(DefaultDeployer)

	assert.Equal(t, common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"), addrs.Token)
	assert.Equal(t, common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"), addrs.Engine)
	assert.Equal(t, common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"), addrs.Treasury)
	assert.Equal(t, common.HexToAddress("0xCf7Ed3AccA5a467e9e704C703E8D87F634fB0Fc9"), addrs.Faucet)
}

func TestGenesisMintsLinksAndFunds(t *testing.T) {
	ctx := context.Background()
	d, store, _ := newTestDeployment(t, func(s *Settings) {
		s.FaucetFunding = gt("100000")
	})

	deployer, err := d.Token.Service.BalanceOf(ctx, d.Addresses.Deployer)
	require.NoError(t, err)
	assert.Equal(t, gt("900000"), deployer)
	faucet, err := d.Faucet.Service.FaucetBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, gt("100000"), faucet)

	treasury, err := d.Governance.Queries.Treasury(ctx)
	require.NoError(t, err)
	assert.Equal(t, d.Addresses.Treasury, treasury)

	assert.Equal(t, []string{
		eventsv1.EventTokenTransfer,
		eventsv1.EventGovernanceTreasuryLinked,
		eventsv1.EventTokenTransfer,
	}, eventTypes(store))

	// A second genesis over the same state is a no-op.
	require.NoError(t, d.Genesis(ctx))
	assert.Len(t, store.OutboxEvents(), 3)
	assertConservation(t, d, store)
}

func TestGenesisWithZeroSupplyRunsOnce(t *testing.T) {
	ctx := context.Background()
	d, store, _ := newTestDeployment(t, func(s *Settings) {
		s.InitialSupply = uint256.Int{}
	})
	assert.Equal(t, []string{eventsv1.EventGovernanceTreasuryLinked}, eventTypes(store))

	require.NoError(t, d.Genesis(ctx))
	require.NoError(t, d.Genesis(ctx))
	assert.Len(t, store.OutboxEvents(), 1)

	treasury, err := d.Governance.Queries.Treasury(ctx)
	require.NoError(t, err)
	assert.Equal(t, d.Addresses.Treasury, treasury)
	supply, err := d.Token.Service.TotalSupply(ctx)
	require.NoError(t, err)
	assert.True(t, supply.IsZero())
}

func TestCreateProposalForwardsFeeToTreasury(t *testing.T) {
	ctx := context.Background()
	d, store, _ := newTestDeployment(t, nil)

	before, err := d.Treasury.Service.Balance(ctx)
	require.NoError(t, err)

	proposal := createProposal(t, d, d.Addresses.Deployer, "Fund the audit")
	assert.Equal(t, uint64(1), proposal.ID)

	view, err := d.Governance.Queries.GetProposal(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Fund the audit", view.Proposal.Description)
	assert.Equal(t, genesisTime.Add(72*time.Hour), view.Proposal.Deadline)
	assert.Equal(t, votingentities.ProposalStatusActive, view.Status)

	after, err := d.Treasury.Service.Balance(ctx)
	require.NoError(t, err)
	var delta uint256.Int
	delta.Sub(&after, &before)
	assert.Equal(t, gt("0.01"), delta)

	events := eventTypes(store)
	assert.Equal(t, eventsv1.EventTreasuryFeeReceived, events[len(events)-2])
	assert.Equal(t, eventsv1.EventGovernanceProposalCreated, events[len(events)-1])
}

func TestCreateProposalWithoutFeeChangesNothing(t *testing.T) {
	ctx := context.Background()
	d, store, _ := newTestDeployment(t, nil)
	eventsBefore := len(store.OutboxEvents())

	_, err := d.Governance.Proposals.CreateProposal(ctx, commands.CreateProposalCommand{
		Proposer:    d.Addresses.Deployer,
		Description: "cheap",
		Value:       gt("0.009"),
	})
	require.ErrorIs(t, err, votingerrors.ErrFeeRequired)

	count, err := d.Governance.Queries.ProposalCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	balance, err := d.Treasury.Service.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
	assert.Len(t, store.OutboxEvents(), eventsBefore)

	// The next successful proposal still gets id 1.
	assert.Equal(t, uint64(1), createProposal(t, d, d.Addresses.Deployer, "paid").ID)
}

func TestCreateProposalRequiresThresholdEvenWithFee(t *testing.T) {
	ctx := context.Background()
	d, _, _ := newTestDeployment(t, nil)
	transfer(t, d, d.Addresses.Deployer, alice, "99.999")

	_, err := d.Governance.Proposals.CreateProposal(ctx, commands.CreateProposalCommand{
		Proposer:    alice,
		Description: "below threshold",
		Value:       gt("1"),
	})
	require.ErrorIs(t, err, votingerrors.ErrInsufficientTokens)

	count, err := d.Governance.Queries.ProposalCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	transfer(t, d, d.Addresses.Deployer, alice, "0.001")
	assert.Equal(t, uint64(1), createProposal(t, d, alice, "at threshold").ID)
}

func TestCreateProposalRequiresLinkedTreasury(t *testing.T) {
	store := memory.NewStore()
	settings := DefaultSettings()
	d, err := New(settings, Options{Store: store, Clock: store, IDGenerator: store})
	require.NoError(t, err)
	_, err = d.Token.Service.Mint(context.Background(), d.Addresses.Deployer, gt("1000"))
	require.NoError(t, err)

	_, err = d.Governance.Proposals.CreateProposal(context.Background(), commands.CreateProposalCommand{
		Proposer: d.Addresses.Deployer,
		Value:    gt("0.01"),
	})
	require.ErrorIs(t, err, votingerrors.ErrTreasuryNotSet)
}

func TestOwnerVoteAndDoubleVote(t *testing.T) {
	ctx := context.Background()
	d, _, _ := newTestDeployment(t, nil)
	createProposal(t, d, d.Addresses.Deployer, "vote")

	result, err := d.Governance.Votes.Vote(ctx, commands.VoteCommand{ProposalID: 1, Voter: d.Addresses.Deployer, Support: true})
	require.NoError(t, err)
	assert.Equal(t, gt("1000000"), result.Proposal.YesVotes)
	assert.True(t, result.Proposal.NoVotes.IsZero())

	voted, err := d.Governance.Queries.HasVoted(ctx, 1, d.Addresses.Deployer)
	require.NoError(t, err)
	assert.True(t, voted)

	for _, support := range []bool{true, false} {
		_, err = d.Governance.Votes.Vote(ctx, commands.VoteCommand{ProposalID: 1, Voter: d.Addresses.Deployer, Support: support})
		require.ErrorIs(t, err, votingerrors.ErrAlreadyVoted)
	}

	view, err := d.Governance.Queries.GetProposal(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, gt("1000000"), view.Proposal.YesVotes)
}

func TestVoteGates(t *testing.T) {
	ctx := context.Background()
	d, store, _ := newTestDeployment(t, nil)

	_, err := d.Governance.Votes.Vote(ctx, commands.VoteCommand{ProposalID: 9, Voter: alice, Support: true})
	require.ErrorIs(t, err, votingerrors.ErrUnknownProposal)

	proposal := createProposal(t, d, d.Addresses.Deployer, "gates")

	// A zero-balance voter is accepted with zero weight and uses up its ballot.
	result, err := d.Governance.Votes.Vote(ctx, commands.VoteCommand{ProposalID: proposal.ID, Voter: carol, Support: true})
	require.NoError(t, err)
	assert.True(t, result.Vote.Weight.IsZero())

	store.SetNow(proposal.Deadline)
	_, err = d.Governance.Votes.Vote(ctx, commands.VoteCommand{ProposalID: proposal.ID, Voter: alice, Support: true})
	require.ErrorIs(t, err, votingerrors.ErrVotingClosed)
}

// holdTx keeps the store's transaction lock until release is closed.
func holdTx(t *testing.T, store *memory.Store) (release func()) {
	t.Helper()
	locked := make(chan struct{})
	unlock := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = store.WithinTx(context.Background(), func(context.Context) error {
			close(locked)
			<-unlock
			return nil
		})
	}()
	<-locked
	return func() {
		close(unlock)
		<-done
	}
}

func TestVoteQueuedBehindTxSeesDeadlinePass(t *testing.T) {
	ctx := context.Background()
	d, store, _ := newTestDeployment(t, nil)
	proposal := createProposal(t, d, d.Addresses.Deployer, "late ballot")

	store.SetNow(proposal.Deadline.Add(-time.Second))
	release := holdTx(t, store)

	errCh := make(chan error, 1)
	go func() {
		_, err := d.Governance.Votes.Vote(ctx, commands.VoteCommand{ProposalID: proposal.ID, Voter: d.Addresses.Deployer, Support: true})
		errCh <- err
	}()
	assert.Never(t, func() bool { return len(errCh) > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	store.SetNow(proposal.Deadline.Add(time.Hour))
	release()

	require.ErrorIs(t, <-errCh, votingerrors.ErrVotingClosed)
	view, err := d.Governance.Queries.GetProposal(ctx, proposal.ID)
	require.NoError(t, err)
	assert.True(t, view.Proposal.YesVotes.IsZero())
	voted, err := d.Governance.Queries.HasVoted(ctx, proposal.ID, d.Addresses.Deployer)
	require.NoError(t, err)
	assert.False(t, voted)
}

func TestExecuteQueuedBehindTxSeesDeadlinePass(t *testing.T) {
	ctx := context.Background()
	d, store, _ := newTestDeployment(t, nil)
	proposal := createProposal(t, d, d.Addresses.Deployer, "late execute")
	_, err := d.Governance.Votes.Vote(ctx, commands.VoteCommand{ProposalID: proposal.ID, Voter: d.Addresses.Deployer, Support: true})
	require.NoError(t, err)

	store.SetNow(proposal.Deadline.Add(-time.Second))
	release := holdTx(t, store)

	type outcome struct {
		proposal votingentities.Proposal
		err      error
	}
	resultCh := make(chan outcome, 1)
	go func() {
		executed, err := d.Governance.Proposals.ExecuteProposal(ctx, commands.ExecuteProposalCommand{ProposalID: proposal.ID, Caller: alice, Gas: 100_000})
		resultCh <- outcome{proposal: executed, err: err}
	}()
	assert.Never(t, func() bool { return len(resultCh) > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	store.SetNow(proposal.Deadline)
	release()

	result := <-resultCh
	require.NoError(t, result.err)
	assert.True(t, result.proposal.Executed)
	status, err := d.Governance.Queries.GetProposalStatus(ctx, proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, votingentities.ProposalStatusExecuted, status)
}

func TestWeightIsLiveBalanceAtVoteTime(t *testing.T) {
	ctx := context.Background()
	d, _, _ := newTestDeployment(t, nil)
	createProposal(t, d, d.Addresses.Deployer, "weights")
	transfer(t, d, d.Addresses.Deployer, alice, "500")

	result, err := d.Governance.Votes.Vote(ctx, commands.VoteCommand{ProposalID: 1, Voter: alice, Support: false})
	require.NoError(t, err)
	assert.Equal(t, gt("500"), result.Vote.Weight)

	// Moving tokens after voting leaves the recorded weight alone.
	transfer(t, d, alice, bob, "500")
	record, found, err := d.Governance.Queries.GetVote(ctx, 1, alice)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, gt("500"), record.Weight)

	result, err = d.Governance.Votes.Vote(ctx, commands.VoteCommand{ProposalID: 1, Voter: bob, Support: false})
	require.NoError(t, err)
	assert.Equal(t, gt("500"), result.Vote.Weight)
	assert.Equal(t, gt("1000"), result.Proposal.NoVotes)
}

func TestLowTurnoutExtensionIsBounded(t *testing.T) {
	ctx := context.Background()
	d, store, _ := newTestDeployment(t, nil)
	for _, voter := range []common.Address{alice, bob, carol} {
		transfer(t, d, d.Addresses.Deployer, voter, "10")
	}
	proposal := createProposal(t, d, d.Addresses.Deployer, "extend")
	original := proposal.Deadline

	store.SetNow(original.Add(-time.Hour))
	first, err := d.Governance.Votes.Vote(ctx, commands.VoteCommand{ProposalID: 1, Voter: alice, Support: true})
	require.NoError(t, err)
	require.True(t, first.Extended)
	assert.Equal(t, original.Add(12*time.Hour), first.Proposal.Deadline)

	store.SetNow(first.Proposal.Deadline.Add(-time.Hour))
	second, err := d.Governance.Votes.Vote(ctx, commands.VoteCommand{ProposalID: 1, Voter: bob, Support: true})
	require.NoError(t, err)
	require.True(t, second.Extended)
	assert.Equal(t, proposal.MaxDeadline, second.Proposal.Deadline)

	store.SetNow(second.Proposal.Deadline.Add(-time.Hour))
	third, err := d.Governance.Votes.Vote(ctx, commands.VoteCommand{ProposalID: 1, Voter: carol, Support: true})
	require.NoError(t, err)
	assert.False(t, third.Extended)
	assert.Equal(t, proposal.MaxDeadline, third.Proposal.Deadline)

	extended := 0
	for _, event := range store.OutboxEvents() {
		if event.EventType == eventsv1.EventGovernanceDeadlineExtended {
			extended++
		}
	}
	assert.Equal(t, 2, extended)
}

func TestExecuteOnceAfterPassing(t *testing.T) {
	ctx := context.Background()
	d, store, _ := newTestDeployment(t, nil)
	proposal := createProposal(t, d, d.Addresses.Deployer, "execute")
	_, err := d.Governance.Votes.Vote(ctx, commands.VoteCommand{ProposalID: 1, Voter: d.Addresses.Deployer, Support: true})
	require.NoError(t, err)

	_, err = d.Governance.Proposals.ExecuteProposal(ctx, commands.ExecuteProposalCommand{ProposalID: 1, Caller: alice})
	require.ErrorIs(t, err, votingerrors.ErrVotingStillOpen)

	store.SetNow(proposal.Deadline)
	status, err := d.Governance.Queries.GetProposalStatus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, votingentities.ProposalStatusPassed, status)

	_, err = d.Governance.Proposals.ExecuteProposal(ctx, commands.ExecuteProposalCommand{ProposalID: 1, Caller: alice, Gas: 99_999})
	require.ErrorIs(t, err, votingerrors.ErrInsufficientGas)

	executed, err := d.Governance.Proposals.ExecuteProposal(ctx, commands.ExecuteProposalCommand{ProposalID: 1, Caller: alice, Gas: 100_000})
	require.NoError(t, err)
	assert.True(t, executed.Executed)

	_, err = d.Governance.Proposals.ExecuteProposal(ctx, commands.ExecuteProposalCommand{ProposalID: 1, Caller: alice})
	require.ErrorIs(t, err, votingerrors.ErrAlreadyExecuted)

	status, err = d.Governance.Queries.GetProposalStatus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, votingentities.ProposalStatusExecuted, status)
}

func TestExecuteRejectsFailedOutcomes(t *testing.T) {
	ctx := context.Background()
	d, store, _ := newTestDeployment(t, nil)

	_, err := d.Governance.Proposals.ExecuteProposal(ctx, commands.ExecuteProposalCommand{ProposalID: 1})
	require.ErrorIs(t, err, votingerrors.ErrUnknownProposal)

	quiet := createProposal(t, d, d.Addresses.Deployer, "no quorum")
	rejected := createProposal(t, d, d.Addresses.Deployer, "rejected")
	_, err = d.Governance.Votes.Vote(ctx, commands.VoteCommand{ProposalID: rejected.ID, Voter: d.Addresses.Deployer, Support: false})
	require.NoError(t, err)

	store.SetNow(rejected.Deadline)
	_, err = d.Governance.Proposals.ExecuteProposal(ctx, commands.ExecuteProposalCommand{ProposalID: quiet.ID})
	require.ErrorIs(t, err, votingerrors.ErrQuorumNotMet)
	_, err = d.Governance.Proposals.ExecuteProposal(ctx, commands.ExecuteProposalCommand{ProposalID: rejected.ID})
	require.ErrorIs(t, err, votingerrors.ErrProposalRejected)

	status, err := d.Governance.Queries.GetProposalStatus(ctx, rejected.ID)
	require.NoError(t, err)
	assert.Equal(t, votingentities.ProposalStatusFailed, status)
}

func TestSetTreasuryRules(t *testing.T) {
	ctx := context.Background()
	d, _, _ := newTestDeployment(t, nil)

	err := d.Governance.Admin.SetTreasury(ctx, commands.SetTreasuryCommand{Caller: alice, Treasury: d.Addresses.Treasury})
	require.ErrorIs(t, err, votingerrors.ErrUnauthorized)
	err = d.Governance.Admin.SetTreasury(ctx, commands.SetTreasuryCommand{Caller: d.Addresses.Deployer})
	require.ErrorIs(t, err, votingerrors.ErrInvalidTreasury)
	err = d.Governance.Admin.SetTreasury(ctx, commands.SetTreasuryCommand{Caller: d.Addresses.Deployer, Treasury: alice})
	require.ErrorIs(t, err, votingerrors.ErrInvalidTreasury)

	createProposal(t, d, d.Addresses.Deployer, "locks the link")

	// Re-linking the same treasury stays a no-op.
	require.NoError(t, d.Governance.Admin.SetTreasury(ctx, commands.SetTreasuryCommand{Caller: d.Addresses.Deployer, Treasury: d.Addresses.Treasury}))
}

func TestFaucetServesExactlyFundedClaims(t *testing.T) {
	ctx := context.Background()
	d, store, _ := newTestDeployment(t, func(s *Settings) {
		s.FaucetFunding = gt("3000")
	})

	for _, claimer := range []common.Address{alice, bob, carol} {
		claim, err := d.Faucet.Service.Claim(ctx, claimer)
		require.NoError(t, err)
		assert.Equal(t, gt("1000"), claim.Amount)
	}
	_, err := d.Faucet.Service.Claim(ctx, common.HexToAddress("0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65"))
	require.ErrorIs(t, err, faucetdomainerrors.ErrFaucetDepleted)
	_, err = d.Faucet.Service.Claim(ctx, alice)
	require.ErrorIs(t, err, faucetdomainerrors.ErrAlreadyClaimed)

	balance, err := d.Token.Service.BalanceOf(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, gt("1000"), balance)
	assertConservation(t, d, store)
}

func TestTokenPurchaseAndTreasuryWithdrawal(t *testing.T) {
	ctx := context.Background()
	d, store, _ := newTestDeployment(t, nil)

	_, err := d.Token.Service.BuyTokens(ctx, tokenports.PurchaseInput{Buyer: alice})
	require.ErrorIs(t, err, tokenerrors.ErrZeroPayment)

	purchase, err := d.Token.Service.BuyTokens(ctx, tokenports.PurchaseInput{Buyer: alice, Value: gt("0.5")})
	require.NoError(t, err)
	assert.Equal(t, gt("500"), purchase.Minted)
	assertConservation(t, d, store)

	createProposal(t, d, d.Addresses.Deployer, "fee")
	_, err = d.Treasury.Service.Withdraw(ctx, treasuryports.WithdrawInput{Caller: alice, To: alice, Amount: gt("0.01")})
	require.ErrorIs(t, err, treasuryerrors.ErrUnauthorized)
	_, err = d.Treasury.Service.Withdraw(ctx, treasuryports.WithdrawInput{Caller: d.Addresses.Deployer, To: bob, Amount: gt("0.02")})
	require.ErrorIs(t, err, treasuryerrors.ErrInsufficientFunds)

	_, err = d.Treasury.Service.Withdraw(ctx, treasuryports.WithdrawInput{Caller: d.Addresses.Deployer, To: bob, Amount: gt("0.01")})
	require.NoError(t, err)
	balance, err := d.Treasury.Service.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestConservationAcrossMixedOperations(t *testing.T) {
	ctx := context.Background()
	d, store, _ := newTestDeployment(t, func(s *Settings) {
		s.FaucetFunding = gt("2000")
	})

	transfer(t, d, d.Addresses.Deployer, alice, "250")
	_, err := d.Token.Service.Approve(ctx, tokenports.ApproveInput{Owner: alice, Spender: bob, Amount: gt("100")})
	require.NoError(t, err)
	_, err = d.Token.Service.TransferFrom(ctx, tokenports.TransferFromInput{Spender: bob, From: alice, To: carol, Amount: gt("60")})
	require.NoError(t, err)
	_, err = d.Token.Service.TransferFrom(ctx, tokenports.TransferFromInput{Spender: bob, From: alice, To: carol, Amount: gt("60")})
	require.ErrorIs(t, err, tokenerrors.ErrInsufficientAllowance)
	_, err = d.Faucet.Service.Claim(ctx, bob)
	require.NoError(t, err)
	_, err = d.Token.Service.BuyTokens(ctx, tokenports.PurchaseInput{Buyer: carol, Value: gt("2")})
	require.NoError(t, err)

	assertConservation(t, d, store)
}

func TestKeeperExecutesPassedProposals(t *testing.T) {
	ctx := context.Background()
	d, store, _ := newTestDeployment(t, nil)
	passing := createProposal(t, d, d.Addresses.Deployer, "passes")
	createProposal(t, d, d.Addresses.Deployer, "fails")
	_, err := d.Governance.Votes.Vote(ctx, commands.VoteCommand{ProposalID: passing.ID, Voter: d.Addresses.Deployer, Support: true})
	require.NoError(t, err)

	require.NoError(t, d.Governance.ExecutionKeeper.RunOnce(ctx))
	view, err := d.Governance.Queries.GetProposal(ctx, passing.ID)
	require.NoError(t, err)
	assert.False(t, view.Proposal.Executed, "keeper must wait for the deadline")

	store.SetNow(passing.Deadline)
	require.NoError(t, d.Governance.ExecutionKeeper.RunOnce(ctx))
	require.NoError(t, d.Governance.ExecutionKeeper.RunOnce(ctx))

	view, err = d.Governance.Queries.GetProposal(ctx, passing.ID)
	require.NoError(t, err)
	assert.Equal(t, votingentities.ProposalStatusExecuted, view.Status)
	status, err := d.Governance.Queries.GetProposalStatus(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, votingentities.ProposalStatusFailed, status)
}

func TestOutboxRelayDrainsEveryModule(t *testing.T) {
	ctx := context.Background()
	d, store, publisher := newTestDeployment(t, func(s *Settings) {
		s.FaucetFunding = gt("1000")
		s.RelayBatchSize = 2
	})
	_, err := d.Faucet.Service.Claim(ctx, alice)
	require.NoError(t, err)
	total := len(store.OutboxEvents())

	for i := 0; i < total; i++ {
		require.NoError(t, d.Governance.OutboxRelay.RunOnce(ctx))
	}
	pending, err := store.ListPendingOutbox(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, pending)
	require.Len(t, publisher.topics, total)
	assert.Equal(t, eventsv1.EventTokenTransfer, publisher.topics[0])
	assert.Equal(t, eventsv1.EventFaucetTokensClaimed, publisher.topics[total-1])
}

func TestOutboxRelayStopsOnPublishFailure(t *testing.T) {
	ctx := context.Background()
	d, store, publisher := newTestDeployment(t, nil)
	publisher.fail = errors.New("broker down")

	require.Error(t, d.Governance.OutboxRelay.RunOnce(ctx))
	pending, err := store.ListPendingOutbox(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, pending, len(store.OutboxEvents()))
}
