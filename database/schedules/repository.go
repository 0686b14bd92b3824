package schedules

import (
	"context"
	"time"

	"trading-reports/database"
	models "trading-reports/database/models_pkg"

	"gorm.io/gorm"
)

// Repository handles database operations for report schedules
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new schedules repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new schedule
func (r *Repository) Create(ctx context.Context, schedule *models.ReportSchedule) error {
	if err := r.db.WithContext(ctx).Create(schedule).Error; err != nil {
		return database.WrapDBError("CreateSchedule", err)
	}
	return nil
}

// GetByID retrieves a schedule by ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.ReportSchedule, error) {
	var schedule models.ReportSchedule
	if err := r.db.WithContext(ctx).First(&schedule, id).Error; err != nil {
		return nil, database.LookupError("GetSchedule", "report schedule", id, err)
	}
	return &schedule, nil
}

// ListByUser returns all schedules owned by a user
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.ReportSchedule, error) {
	var schedules []models.ReportSchedule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, database.WrapDBError("ListSchedulesByUser", err)
	}
	return schedules, nil
}

// ListActive returns every active schedule
func (r *Repository) ListActive(ctx context.Context) ([]models.ReportSchedule, error) {
	var schedules []models.ReportSchedule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, database.WrapDBError("ListActiveSchedules", err)
	}
	return schedules, nil
}

// Update writes every column of schedule; UpdatedAt is refreshed
func (r *Repository) Update(ctx context.Context, schedule *models.ReportSchedule) error {
	if err := r.db.WithContext(ctx).Save(schedule).Error; err != nil {
		return database.WrapDBError("UpdateSchedule", err)
	}
	return nil
}

// MarkRun records that a schedule produced its report at ranAt
func (r *Repository) MarkRun(ctx context.Context, id int64, ranAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.ReportSchedule{}).
		Where("id = ?", id).
		Update("last_run_at", ranAt)
	return database.RequireAffected(result, "MarkScheduleRun", "report schedule", id)
}
