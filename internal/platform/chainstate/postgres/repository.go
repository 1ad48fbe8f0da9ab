package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrSchemaMissing is returned when a chainstate table does not exist.
var ErrSchemaMissing = errors.New("chainstate schema is missing; run with auto-migrate enabled")

type txKey struct{}

// Repository stores the world state of one deployment in Postgres. It
// implements the same repository ports as the in-memory store.
type Repository struct {
	db      *gorm.DB
	lockKey int64
	logger  *slog.Logger
}

func NewRepository(db *gorm.DB, lockKey int64, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:      db,
		lockKey: lockKey,
		logger:  logger,
	}
}

// AutoMigrate creates or updates every chainstate table.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(
		&accountModel{},
		&allowanceModel{},
		&tokenStateModel{},
		&custodyModel{},
		&claimModel{},
		&proposalModel{},
		&voteModel{},
		&engineSettingsModel{},
		&outboxModel{},
	); err != nil {
		return r.logError("chainstate_auto_migrate_failed", err)
	}
	return nil
}

// WithinTx opens a transaction serialised on the deployment's advisory lock.
// Nested calls carrying the transaction's context join it.
func (r *Repository) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", r.lockKey).Error; err != nil {
			return r.logError("chainstate_advisory_lock_failed", err, "lock_key", r.lockKey)
		}
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "platform/chainstate",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("chainstate repository operation failed", fields...)
	if isUndefinedTable(err) {
		return fmt.Errorf("%w: %v", ErrSchemaMissing, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}
