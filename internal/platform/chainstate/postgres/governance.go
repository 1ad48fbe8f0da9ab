package postgres

import (
	"context"
	"errors"

	"securevote/contexts/governance/voting-engine/domain/entities"
	domainerrors "securevote/contexts/governance/voting-engine/domain/errors"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NextProposalID bumps the engine's sequence. Callers hold the advisory lock,
// so the read-modify-write cannot interleave.
func (r *Repository) NextProposalID(ctx context.Context) (uint64, error) {
	settings, err := r.loadSettings(ctx)
	if err != nil {
		return 0, err
	}
	settings.ProposalSeq++
	if err := r.saveSettings(ctx, settings); err != nil {
		return 0, err
	}
	return settings.ProposalSeq, nil
}

func (r *Repository) ProposalCount(ctx context.Context) (uint64, error) {
	var count int64
	if err := r.conn(ctx).Model(&proposalModel{}).Count(&count).Error; err != nil {
		return 0, r.logError("chainstate_proposal_count_failed", err)
	}
	return uint64(count), nil
}

func (r *Repository) SaveProposal(ctx context.Context, proposal entities.Proposal) error {
	if proposal.ID == 0 {
		return domainerrors.ErrInvalidInput
	}
	row := proposalModelFromEntity(proposal)
	if err := r.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"deadline":  row.Deadline,
			"yes_votes": row.YesVotes,
			"no_votes":  row.NoVotes,
			"executed":  row.Executed,
		}),
	}).Create(&row).Error; err != nil {
		return r.logError("chainstate_save_proposal_failed", err, "proposal_id", proposal.ID)
	}
	return nil
}

func (r *Repository) GetProposal(ctx context.Context, proposalID uint64) (entities.Proposal, error) {
	var row proposalModel
	err := r.conn(ctx).Where("id = ?", proposalID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, domainerrors.ErrUnknownProposal
		}
		return entities.Proposal{}, r.logError("chainstate_get_proposal_failed", err, "proposal_id", proposalID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListProposals(ctx context.Context, offset int, limit int) ([]entities.Proposal, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 100
	}
	var rows []proposalModel
	if err := r.conn(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("chainstate_list_proposals_failed", err, "offset", offset, "limit", limit)
	}
	items := make([]entities.Proposal, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetVote(ctx context.Context, proposalID uint64, voter common.Address) (entities.VoteRecord, bool, error) {
	var row voteModel
	err := r.conn(ctx).
		Where("proposal_id = ?", proposalID).
		Where("voter = ?", voter.Hex()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VoteRecord{}, false, nil
		}
		return entities.VoteRecord{}, false, r.logError("chainstate_get_vote_failed", err,
			"proposal_id", proposalID,
			"voter", voter.Hex(),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveVote(ctx context.Context, vote entities.VoteRecord) error {
	row := voteModelFromEntity(vote)
	if err := r.conn(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("chainstate_save_vote_failed", err,
			"proposal_id", vote.ProposalID,
			"voter", row.Voter,
		)
	}
	return nil
}

func (r *Repository) GetTreasury(ctx context.Context) (common.Address, error) {
	settings, err := r.loadSettings(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if settings.Treasury == "" {
		return common.Address{}, nil
	}
	return common.HexToAddress(settings.Treasury), nil
}

func (r *Repository) SetTreasury(ctx context.Context, treasury common.Address) error {
	settings, err := r.loadSettings(ctx)
	if err != nil {
		return err
	}
	settings.Treasury = treasury.Hex()
	return r.saveSettings(ctx, settings)
}

func (r *Repository) loadSettings(ctx context.Context) (engineSettingsModel, error) {
	var row engineSettingsModel
	err := r.conn(ctx).Where("id = ?", singletonRowID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return engineSettingsModel{ID: singletonRowID}, nil
		}
		return engineSettingsModel{}, r.logError("chainstate_load_engine_settings_failed", err)
	}
	return row, nil
}

func (r *Repository) saveSettings(ctx context.Context, row engineSettingsModel) error {
	row.ID = singletonRowID
	if err := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"treasury", "proposal_seq"}),
	}).Create(&row).Error; err != nil {
		return r.logError("chainstate_save_engine_settings_failed", err)
	}
	return nil
}
