package reports

import (
	"context"
	"time"

	"trading-reports/database"
	models "trading-reports/database/models_pkg"

	"gorm.io/gorm"
)

// Repository handles database operations for reports.
// It is bound to one session's *gorm.DB and must not outlive it.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reports repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new report; GenerationTime defaults to now
func (r *Repository) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return database.WrapDBError("CreateReport", err)
	}
	return nil
}

// GetByID retrieves a report by ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, database.LookupError("GetReport", "report", id, err)
	}
	return &report, nil
}

// ListByPortfolio returns a portfolio's reports, newest first.
// An empty reportType matches every type.
func (r *Repository) ListByPortfolio(ctx context.Context, portfolioID int64, reportType models.ReportType, limit int) ([]models.Report, error) {
	var reports []models.Report
	query := r.db.WithContext(ctx).
		Where("portfolio_id = ?", portfolioID).
		Order("generation_time DESC").
		Limit(database.ClampLimit(limit))

	if reportType != "" {
		query = query.Where("report_type = ?", reportType)
	}

	if err := query.Find(&reports).Error; err != nil {
		return nil, database.WrapDBError("ListReportsByPortfolio", err)
	}
	return reports, nil
}

// ListGeneratedBetween returns reports of every portfolio generated in [from, to)
func (r *Repository) ListGeneratedBetween(ctx context.Context, from, to time.Time, limit int) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Where("generation_time >= ? AND generation_time < ?", from, to).
		Order("generation_time ASC").
		Limit(database.ClampLimit(limit)).
		Find(&reports).Error
	if err != nil {
		return nil, database.WrapDBError("ListReportsGeneratedBetween", err)
	}
	return reports, nil
}

// Update writes every column of report (full-record update)
func (r *Repository) Update(ctx context.Context, report *models.Report) error {
	result := r.db.WithContext(ctx).Save(report)
	if result.Error != nil {
		return database.WrapDBError("UpdateReport", result.Error)
	}
	return nil
}

// DeleteByIDs removes the given reports and returns how many rows went
func (r *Repository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Report{})
	if result.Error != nil {
		return 0, database.WrapDBError("DeleteReports", result.Error)
	}
	return result.RowsAffected, nil
}
