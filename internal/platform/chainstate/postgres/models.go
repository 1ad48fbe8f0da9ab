package postgres

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	faucetentities "securevote/contexts/governance/token-faucet/domain/entities"
	"securevote/contexts/governance/voting-engine/domain/entities"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// amount maps a uint256 to NUMERIC(78,0).
type amount uint256.Int

func newAmount(v uint256.Int) amount {
	return amount(v)
}

func (a amount) Int() uint256.Int {
	return uint256.Int(a)
}

func (a amount) Value() (driver.Value, error) {
	v := uint256.Int(a)
	return v.Dec(), nil
}

func (a *amount) Scan(src any) error {
	var text string
	switch v := src.(type) {
	case nil:
		*a = amount{}
		return nil
	case string:
		text = v
	case []byte:
		text = string(v)
	case int64:
		if v < 0 {
			return fmt.Errorf("scan amount: negative value %d", v)
		}
		text = strconv.FormatInt(v, 10)
	default:
		return fmt.Errorf("scan amount: unsupported type %T", src)
	}
	// NUMERIC(78,0) never carries a fraction, but tolerate a ".0" rendering.
	text = strings.TrimSuffix(strings.TrimSpace(text), ".0")
	parsed, err := uint256.FromDecimal(text)
	if err != nil {
		return fmt.Errorf("scan amount %q: %w", text, err)
	}
	*a = amount(*parsed)
	return nil
}

type accountModel struct {
	Address string `gorm:"column:address;primaryKey;size:42"`
	Balance amount `gorm:"column:balance;type:numeric(78,0);not null;default:0"`
}

func (accountModel) TableName() string {
	return "token_accounts"
}

type allowanceModel struct {
	Owner   string `gorm:"column:owner;primaryKey;size:42"`
	Spender string `gorm:"column:spender;primaryKey;size:42"`
	Amount  amount `gorm:"column:amount;type:numeric(78,0);not null;default:0"`
}

func (allowanceModel) TableName() string {
	return "token_allowances"
}

type tokenStateModel struct {
	ID          int    `gorm:"column:id;primaryKey;autoIncrement:false"`
	TotalSupply amount `gorm:"column:total_supply;type:numeric(78,0);not null;default:0"`
}

func (tokenStateModel) TableName() string {
	return "token_state"
}

type custodyModel struct {
	Address string `gorm:"column:address;primaryKey;size:42"`
	Balance amount `gorm:"column:balance;type:numeric(78,0);not null;default:0"`
}

func (custodyModel) TableName() string {
	return "native_custody"
}

type claimModel struct {
	Claimer   string    `gorm:"column:claimer;primaryKey;size:42"`
	Amount    amount    `gorm:"column:amount;type:numeric(78,0);not null"`
	ClaimedAt time.Time `gorm:"column:claimed_at"`
}

func (claimModel) TableName() string {
	return "faucet_claims"
}

func claimModelFromEntity(claim faucetentities.Claim) claimModel {
	return claimModel{
		Claimer:   claim.Claimer.Hex(),
		Amount:    newAmount(claim.Amount),
		ClaimedAt: claim.ClaimedAt.UTC(),
	}
}

type proposalModel struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement:false"`
	Proposer    string    `gorm:"column:proposer;size:42;index"`
	Description string    `gorm:"column:description"`
	Deadline    time.Time `gorm:"column:deadline"`
	MaxDeadline time.Time `gorm:"column:max_deadline"`
	YesVotes    amount    `gorm:"column:yes_votes;type:numeric(78,0);not null;default:0"`
	NoVotes     amount    `gorm:"column:no_votes;type:numeric(78,0);not null;default:0"`
	Executed    bool      `gorm:"column:executed"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (proposalModel) TableName() string {
	return "governance_proposals"
}

func proposalModelFromEntity(p entities.Proposal) proposalModel {
	return proposalModel{
		ID:          p.ID,
		Proposer:    p.Proposer.Hex(),
		Description: p.Description,
		Deadline:    p.Deadline.UTC(),
		MaxDeadline: p.MaxDeadline.UTC(),
		YesVotes:    newAmount(p.YesVotes),
		NoVotes:     newAmount(p.NoVotes),
		Executed:    p.Executed,
		CreatedAt:   p.CreatedAt.UTC(),
	}
}

func (m proposalModel) toEntity() entities.Proposal {
	return entities.Proposal{
		ID:          m.ID,
		Proposer:    common.HexToAddress(m.Proposer),
		Description: m.Description,
		Deadline:    m.Deadline.UTC(),
		MaxDeadline: m.MaxDeadline.UTC(),
		YesVotes:    m.YesVotes.Int(),
		NoVotes:     m.NoVotes.Int(),
		Executed:    m.Executed,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type voteModel struct {
	ProposalID uint64    `gorm:"column:proposal_id;primaryKey;autoIncrement:false"`
	Voter      string    `gorm:"column:voter;primaryKey;size:42"`
	Support    bool      `gorm:"column:support"`
	Weight     amount    `gorm:"column:weight;type:numeric(78,0);not null"`
	CastAt     time.Time `gorm:"column:cast_at"`
}

func (voteModel) TableName() string {
	return "governance_votes"
}

func voteModelFromEntity(v entities.VoteRecord) voteModel {
	return voteModel{
		ProposalID: v.ProposalID,
		Voter:      v.Voter.Hex(),
		Support:    v.Support,
		Weight:     newAmount(v.Weight),
		CastAt:     v.CastAt.UTC(),
	}
}

func (m voteModel) toEntity() entities.VoteRecord {
	return entities.VoteRecord{
		ProposalID: m.ProposalID,
		Voter:      common.HexToAddress(m.Voter),
		Support:    m.Support,
		Weight:     m.Weight.Int(),
		CastAt:     m.CastAt.UTC(),
	}
}

type engineSettingsModel struct {
	ID          int    `gorm:"column:id;primaryKey;autoIncrement:false"`
	Treasury    string `gorm:"column:treasury;size:42"`
	ProposalSeq uint64 `gorm:"column:proposal_seq;not null;default:0"`
}

func (engineSettingsModel) TableName() string {
	return "governance_engine_settings"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	Seq          uint64     `gorm:"column:seq;autoIncrement;uniqueIndex"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "governance_outbox"
}
