package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	faucetentities "securevote/contexts/governance/token-faucet/domain/entities"
	faucetdomainerrors "securevote/contexts/governance/token-faucet/domain/errors"
	"securevote/contexts/governance/voting-engine/domain/entities"
	domainerrors "securevote/contexts/governance/voting-engine/domain/errors"
	"securevote/contexts/governance/voting-engine/ports"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

type allowanceKey struct {
	owner   common.Address
	spender common.Address
}

type voteKey struct {
	proposalID uint64
	voter      common.Address
}

type outboxRecord struct {
	message   ports.OutboxMessage
	seq       uint64
	published bool
}

// Store is the world state of one deployment: token ledger, native custody,
// faucet claims, proposals, ballots, engine settings and the shared outbox.
// It implements the repository ports of every governance module.
type Store struct {
	mu sync.RWMutex

	tokenBalances  map[common.Address]uint256.Int
	allowances     map[allowanceKey]uint256.Int
	totalSupply    uint256.Int
	nativeBalances map[common.Address]uint256.Int
	claims         map[common.Address]faucetentities.Claim
	proposals      map[uint64]entities.Proposal
	proposalSeq    uint64
	votes          map[voteKey]entities.VoteRecord
	treasury       common.Address
	outbox         map[string]outboxRecord
	outboxSeq      uint64

	clockMu sync.Mutex
	now     time.Time
}

func NewStore() *Store {
	return &Store{
		tokenBalances:  make(map[common.Address]uint256.Int),
		allowances:     make(map[allowanceKey]uint256.Int),
		nativeBalances: make(map[common.Address]uint256.Int),
		claims:         make(map[common.Address]faucetentities.Claim),
		proposals:      make(map[uint64]entities.Proposal),
		votes:          make(map[voteKey]entities.VoteRecord),
		outbox:         make(map[string]outboxRecord),
	}
}

// Token ledger.

func (s *Store) GetTokenBalance(ctx context.Context, holder common.Address) (uint256.Int, error) {
	var out uint256.Int
	s.read(ctx, func() { out = s.tokenBalances[holder] })
	return out, nil
}

func (s *Store) SetTokenBalance(ctx context.Context, holder common.Address, amount uint256.Int) error {
	return s.write(ctx, func(tx *txState) error {
		setEntry(tx, s.tokenBalances, holder, amount)
		return nil
	})
}

func (s *Store) GetAllowance(ctx context.Context, owner common.Address, spender common.Address) (uint256.Int, error) {
	var out uint256.Int
	s.read(ctx, func() { out = s.allowances[allowanceKey{owner: owner, spender: spender}] })
	return out, nil
}

func (s *Store) SetAllowance(ctx context.Context, owner common.Address, spender common.Address, amount uint256.Int) error {
	return s.write(ctx, func(tx *txState) error {
		setEntry(tx, s.allowances, allowanceKey{owner: owner, spender: spender}, amount)
		return nil
	})
}

func (s *Store) GetTotalSupply(ctx context.Context) (uint256.Int, error) {
	var out uint256.Int
	s.read(ctx, func() { out = s.totalSupply })
	return out, nil
}

func (s *Store) SetTotalSupply(ctx context.Context, amount uint256.Int) error {
	return s.write(ctx, func(tx *txState) error {
		setScalar(tx, &s.totalSupply, amount)
		return nil
	})
}

// TokenBalances snapshots every non-empty token account.
func (s *Store) TokenBalances() map[common.Address]uint256.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[common.Address]uint256.Int, len(s.tokenBalances))
	for holder, balance := range s.tokenBalances {
		if !balance.IsZero() {
			out[holder] = balance
		}
	}
	return out
}

// Native custody.

func (s *Store) GetNativeBalance(ctx context.Context, holder common.Address) (uint256.Int, error) {
	var out uint256.Int
	s.read(ctx, func() { out = s.nativeBalances[holder] })
	return out, nil
}

func (s *Store) SetNativeBalance(ctx context.Context, holder common.Address, amount uint256.Int) error {
	return s.write(ctx, func(tx *txState) error {
		setEntry(tx, s.nativeBalances, holder, amount)
		return nil
	})
}

// Faucet claims.

func (s *Store) HasClaimed(ctx context.Context, claimer common.Address) (bool, error) {
	var found bool
	s.read(ctx, func() { _, found = s.claims[claimer] })
	return found, nil
}

func (s *Store) SaveClaim(ctx context.Context, claim faucetentities.Claim) error {
	return s.write(ctx, func(tx *txState) error {
		if _, exists := s.claims[claim.Claimer]; exists {
			return faucetdomainerrors.ErrClaimConflict
		}
		setEntry(tx, s.claims, claim.Claimer, claim)
		return nil
	})
}

// Proposals and ballots.

func (s *Store) NextProposalID(ctx context.Context) (uint64, error) {
	var id uint64
	err := s.write(ctx, func(tx *txState) error {
		id = s.proposalSeq + 1
		setScalar(tx, &s.proposalSeq, id)
		return nil
	})
	return id, err
}

func (s *Store) ProposalCount(ctx context.Context) (uint64, error) {
	var count uint64
	s.read(ctx, func() { count = uint64(len(s.proposals)) })
	return count, nil
}

func (s *Store) SaveProposal(ctx context.Context, proposal entities.Proposal) error {
	if proposal.ID == 0 {
		return domainerrors.ErrInvalidInput
	}
	return s.write(ctx, func(tx *txState) error {
		setEntry(tx, s.proposals, proposal.ID, proposal)
		return nil
	})
}

func (s *Store) GetProposal(ctx context.Context, proposalID uint64) (entities.Proposal, error) {
	var (
		proposal entities.Proposal
		found    bool
	)
	s.read(ctx, func() { proposal, found = s.proposals[proposalID] })
	if !found {
		return entities.Proposal{}, domainerrors.ErrUnknownProposal
	}
	return proposal, nil
}

// ListProposals returns proposals in id order; ids are dense from 1.
func (s *Store) ListProposals(ctx context.Context, offset int, limit int) ([]entities.Proposal, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 100
	}
	var items []entities.Proposal
	s.read(ctx, func() {
		items = make([]entities.Proposal, 0, limit)
		for id := uint64(offset) + 1; id <= s.proposalSeq && len(items) < limit; id++ {
			if proposal, ok := s.proposals[id]; ok {
				items = append(items, proposal)
			}
		}
	})
	return items, nil
}

func (s *Store) GetVote(ctx context.Context, proposalID uint64, voter common.Address) (entities.VoteRecord, bool, error) {
	var (
		record entities.VoteRecord
		found  bool
	)
	s.read(ctx, func() { record, found = s.votes[voteKey{proposalID: proposalID, voter: voter}] })
	return record, found, nil
}

func (s *Store) SaveVote(ctx context.Context, vote entities.VoteRecord) error {
	key := voteKey{proposalID: vote.ProposalID, voter: vote.Voter}
	return s.write(ctx, func(tx *txState) error {
		if _, exists := s.votes[key]; exists {
			return domainerrors.ErrConflict
		}
		setEntry(tx, s.votes, key, vote)
		return nil
	})
}

// Engine settings.

func (s *Store) GetTreasury(ctx context.Context) (common.Address, error) {
	var out common.Address
	s.read(ctx, func() { out = s.treasury })
	return out, nil
}

func (s *Store) SetTreasury(ctx context.Context, treasury common.Address) error {
	return s.write(ctx, func(tx *txState) error {
		setScalar(tx, &s.treasury, treasury)
		return nil
	})
}

// Outbox.

func (s *Store) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = s.Now()
	}
	return s.write(ctx, func(tx *txState) error {
		if existing, ok := s.outbox[outboxID]; ok {
			if string(existing.message.Payload) != string(payload) {
				return domainerrors.ErrConflict
			}
			return nil
		}
		seq := s.outboxSeq + 1
		setScalar(tx, &s.outboxSeq, seq)
		setEntry(tx, s.outbox, outboxID, outboxRecord{
			message: ports.OutboxMessage{
				OutboxID:     outboxID,
				EventType:    strings.TrimSpace(envelope.EventType),
				PartitionKey: strings.TrimSpace(envelope.PartitionKey),
				Payload:      payload,
				CreatedAt:    createdAt,
			},
			seq: seq,
		})
		return nil
	})
}

// ListPendingOutbox returns unpublished rows oldest first.
func (s *Store) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxRecord
	s.read(ctx, func() {
		rows = make([]outboxRecord, 0, len(s.outbox))
		for _, row := range s.outbox {
			if !row.published {
				rows = append(rows, row)
			}
		}
	})
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].seq < rows[j].seq
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.message)
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(ctx context.Context, outboxID string, _ time.Time) error {
	outboxID = strings.TrimSpace(outboxID)
	return s.write(ctx, func(tx *txState) error {
		row, ok := s.outbox[outboxID]
		if !ok {
			return domainerrors.ErrConflict
		}
		row.published = true
		setEntry(tx, s.outbox, outboxID, row)
		return nil
	})
}

// OutboxEvents decodes every outbox row, published or not, in append order.
func (s *Store) OutboxEvents() []ports.EventEnvelope {
	s.mu.RLock()
	rows := make([]outboxRecord, 0, len(s.outbox))
	for _, row := range s.outbox {
		rows = append(rows, row)
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].seq < rows[j].seq
	})
	events := make([]ports.EventEnvelope, 0, len(rows))
	for _, row := range rows {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.message.Payload, &event); err == nil {
			events = append(events, event)
		}
	}
	return events
}

// Clock and ids.

// Now returns the pinned time when one is set, otherwise the wall clock.
func (s *Store) Now() time.Time {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func (s *Store) SetNow(now time.Time) {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	s.now = now.UTC()
}

// Advance moves a pinned clock forward; an unpinned clock is pinned first.
func (s *Store) Advance(d time.Duration) {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	if s.now.IsZero() {
		s.now = time.Now().UTC()
	}
	s.now = s.now.Add(d)
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
