package market

import (
	"context"
	"time"

	"trading-reports/database"
	models "trading-reports/database/models_pkg"

	"gorm.io/gorm"
)

// Repository handles database operations for market condition snapshots
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new market conditions repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save persists a new snapshot
func (r *Repository) Save(ctx context.Context, condition *models.MarketCondition) error {
	if err := r.db.WithContext(ctx).Create(condition).Error; err != nil {
		return database.WrapDBError("SaveMarketCondition", err)
	}
	return nil
}

// GetByDate returns the latest snapshot recorded on day's calendar date (UTC)
func (r *Repository) GetByDate(ctx context.Context, day time.Time) (*models.MarketCondition, error) {
	day = day.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var condition models.MarketCondition
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", start, end).
		Order("date DESC, id DESC").
		First(&condition).Error
	if err != nil {
		return nil, database.LookupError("GetMarketConditionByDate", "market condition", start.Format("2006-01-02"), err)
	}
	return &condition, nil
}

// ListRange returns snapshots with start <= date <= end, oldest first
func (r *Repository) ListRange(ctx context.Context, start, end time.Time) ([]models.MarketCondition, error) {
	var conditions []models.MarketCondition
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC").
		Find(&conditions).Error
	if err != nil {
		return nil, database.WrapDBError("ListMarketConditions", err)
	}
	return conditions, nil
}

// ListUnusual returns the most recent snapshots flagged as unusual
func (r *Repository) ListUnusual(ctx context.Context, limit int) ([]models.MarketCondition, error) {
	var conditions []models.MarketCondition
	err := r.db.WithContext(ctx).
		Where("is_unusual = ?", true).
		Order("date DESC").
		Limit(database.ClampLimit(limit)).
		Find(&conditions).Error
	if err != nil {
		return nil, database.WrapDBError("ListUnusualMarketConditions", err)
	}
	return conditions, nil
}
