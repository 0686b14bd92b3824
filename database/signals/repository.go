package signals

import (
	"context"

	"trading-reports/database"
	models "trading-reports/database/models_pkg"

	"gorm.io/gorm"
)

// Repository handles database operations for signal factors.
// Signals themselves live in an external table and are referenced by ID only.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new signal factors repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// factorBatchSize bounds the rows sent in one INSERT
const factorBatchSize = 100

// CreateFactors persists the factors of one or more signals in batches
func (r *Repository) CreateFactors(ctx context.Context, factors []*models.SignalFactor) error {
	if len(factors) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(factors, factorBatchSize).Error; err != nil {
		return database.WrapDBError("CreateSignalFactors", err)
	}
	return nil
}

// ListBySignal returns a signal's factors, heaviest weight first
func (r *Repository) ListBySignal(ctx context.Context, signalID int64) ([]models.SignalFactor, error) {
	var factors []models.SignalFactor
	err := r.db.WithContext(ctx).
		Where("signal_id = ?", signalID).
		Order("factor_weight DESC, id ASC").
		Find(&factors).Error
	if err != nil {
		return nil, database.WrapDBError("ListSignalFactors", err)
	}
	return factors, nil
}

// ListByCategory returns the most recent factors of one category across signals
func (r *Repository) ListByCategory(ctx context.Context, category string, limit int) ([]models.SignalFactor, error) {
	var factors []models.SignalFactor
	err := r.db.WithContext(ctx).
		Where("factor_category = ?", category).
		Order("created_at DESC, id DESC").
		Limit(database.ClampLimit(limit)).
		Find(&factors).Error
	if err != nil {
		return nil, database.WrapDBError("ListSignalFactorsByCategory", err)
	}
	return factors, nil
}
