package postgres

import (
	"context"
	"errors"

	faucetentities "securevote/contexts/governance/token-faucet/domain/entities"
	faucetdomainerrors "securevote/contexts/governance/token-faucet/domain/errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const singletonRowID = 1

func (r *Repository) GetTokenBalance(ctx context.Context, holder common.Address) (uint256.Int, error) {
	var row accountModel
	err := r.conn(ctx).Where("address = ?", holder.Hex()).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uint256.Int{}, nil
		}
		return uint256.Int{}, r.logError("chainstate_get_token_balance_failed", err, "holder", holder.Hex())
	}
	return row.Balance.Int(), nil
}

func (r *Repository) SetTokenBalance(ctx context.Context, holder common.Address, value uint256.Int) error {
	row := accountModel{Address: holder.Hex(), Balance: newAmount(value)}
	if err := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance"}),
	}).Create(&row).Error; err != nil {
		return r.logError("chainstate_set_token_balance_failed", err, "holder", holder.Hex())
	}
	return nil
}

func (r *Repository) GetAllowance(ctx context.Context, owner common.Address, spender common.Address) (uint256.Int, error) {
	var row allowanceModel
	err := r.conn(ctx).
		Where("owner = ?", owner.Hex()).
		Where("spender = ?", spender.Hex()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uint256.Int{}, nil
		}
		return uint256.Int{}, r.logError("chainstate_get_allowance_failed", err,
			"owner", owner.Hex(),
			"spender", spender.Hex(),
		)
	}
	return row.Amount.Int(), nil
}

func (r *Repository) SetAllowance(ctx context.Context, owner common.Address, spender common.Address, value uint256.Int) error {
	row := allowanceModel{Owner: owner.Hex(), Spender: spender.Hex(), Amount: newAmount(value)}
	if err := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "spender"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount"}),
	}).Create(&row).Error; err != nil {
		return r.logError("chainstate_set_allowance_failed", err,
			"owner", owner.Hex(),
			"spender", spender.Hex(),
		)
	}
	return nil
}

func (r *Repository) GetTotalSupply(ctx context.Context) (uint256.Int, error) {
	var row tokenStateModel
	err := r.conn(ctx).Where("id = ?", singletonRowID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uint256.Int{}, nil
		}
		return uint256.Int{}, r.logError("chainstate_get_total_supply_failed", err)
	}
	return row.TotalSupply.Int(), nil
}

func (r *Repository) SetTotalSupply(ctx context.Context, value uint256.Int) error {
	row := tokenStateModel{ID: singletonRowID, TotalSupply: newAmount(value)}
	if err := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_supply"}),
	}).Create(&row).Error; err != nil {
		return r.logError("chainstate_set_total_supply_failed", err)
	}
	return nil
}

func (r *Repository) GetNativeBalance(ctx context.Context, holder common.Address) (uint256.Int, error) {
	var row custodyModel
	err := r.conn(ctx).Where("address = ?", holder.Hex()).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uint256.Int{}, nil
		}
		return uint256.Int{}, r.logError("chainstate_get_native_balance_failed", err, "holder", holder.Hex())
	}
	return row.Balance.Int(), nil
}

func (r *Repository) SetNativeBalance(ctx context.Context, holder common.Address, value uint256.Int) error {
	row := custodyModel{Address: holder.Hex(), Balance: newAmount(value)}
	if err := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance"}),
	}).Create(&row).Error; err != nil {
		return r.logError("chainstate_set_native_balance_failed", err, "holder", holder.Hex())
	}
	return nil
}

func (r *Repository) HasClaimed(ctx context.Context, claimer common.Address) (bool, error) {
	var count int64
	if err := r.conn(ctx).
		Model(&claimModel{}).
		Where("claimer = ?", claimer.Hex()).
		Count(&count).Error; err != nil {
		return false, r.logError("chainstate_has_claimed_failed", err, "claimer", claimer.Hex())
	}
	return count > 0, nil
}

func (r *Repository) SaveClaim(ctx context.Context, claim faucetentities.Claim) error {
	row := claimModelFromEntity(claim)
	if err := r.conn(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return faucetdomainerrors.ErrClaimConflict
		}
		return r.logError("chainstate_save_claim_failed", err, "claimer", row.Claimer)
	}
	return nil
}
