package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"trading-reports/database"
	models "trading-reports/database/models_pkg"
	"trading-reports/database/schedules"
	"trading-reports/schemas"
)

// DueRun is one schedule firing inside a window
type DueRun struct {
	Schedule schemas.ReportScheduleResponse
	RunAt    time.Time
}

// ScheduleService manages report schedules and works out which ones are due
type ScheduleService struct {
	db  *database.Database
	loc *time.Location
	log zerolog.Logger
}

// NewScheduleService creates a schedule service. Times of day are read in loc.
func NewScheduleService(db *database.Database, loc *time.Location, log zerolog.Logger) *ScheduleService {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleService{
		db:  db,
		loc: loc,
		log: log.With().Str("component", "schedules").Logger(),
	}
}

// CreateSchedule applies defaults, validates req and persists it
func (s *ScheduleService) CreateSchedule(ctx context.Context, req *schemas.ReportScheduleCreate) (schemas.ReportScheduleResponse, error) {
	if err := schemas.Validate(ctx, req); err != nil {
		return schemas.ReportScheduleResponse{}, err
	}

	created, err := database.RunInTransaction(ctx, s.db, func(tx *gorm.DB) (*models.ReportSchedule, error) {
		schedule := req.ToModel()
		if err := schedules.NewRepository(tx).Create(ctx, schedule); err != nil {
			return nil, err
		}
		return schedule, nil
	})
	if err != nil {
		return schemas.ReportScheduleResponse{}, err
	}

	s.log.Info().
		Int64("schedule_id", created.ID).
		Int64("user_id", created.UserID).
		Str("time_of_day", created.TimeOfDay).
		Msg("📅 Schedule created")
	return schemas.NewReportScheduleResponse(created), nil
}

// UpdateSchedule replaces every mutable field of schedule id
func (s *ScheduleService) UpdateSchedule(ctx context.Context, id int64, req *schemas.ReportScheduleUpdate) (schemas.ReportScheduleResponse, error) {
	if err := schemas.Validate(ctx, req); err != nil {
		return schemas.ReportScheduleResponse{}, err
	}

	updated, err := database.RunInTransaction(ctx, s.db, func(tx *gorm.DB) (*models.ReportSchedule, error) {
		repo := schedules.NewRepository(tx)
		schedule, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		req.ApplyTo(schedule)
		if err := repo.Update(ctx, schedule); err != nil {
			return nil, err
		}
		return schedule, nil
	})
	if err != nil {
		return schemas.ReportScheduleResponse{}, err
	}
	return schemas.NewReportScheduleResponse(updated), nil
}

// ListSchedules returns every schedule a user owns
func (s *ScheduleService) ListSchedules(ctx context.Context, userID int64) ([]schemas.ReportScheduleResponse, error) {
	var list []models.ReportSchedule
	err := s.db.WithSession(ctx, func(sess *database.Session) error {
		var err error
		list, err = schedules.NewRepository(sess.DB()).ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]schemas.ReportScheduleResponse, len(list))
	for i := range list {
		out[i] = schemas.NewReportScheduleResponse(&list[i])
	}
	return out, nil
}

// DueSchedules returns the active schedules whose next run falls in (from, to].
// A schedule that already ran inside the window is measured from its last run.
// Schedules whose next run cannot be computed are logged and skipped.
func (s *ScheduleService) DueSchedules(ctx context.Context, from, to time.Time) ([]DueRun, error) {
	var active []models.ReportSchedule
	err := s.db.WithSession(ctx, func(sess *database.Session) error {
		var err error
		active, err = schedules.NewRepository(sess.DB()).ListActive(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	var due []DueRun
	for i := range active {
		schedule := &active[i]

		after := from
		if schedule.LastRunAt != nil && schedule.LastRunAt.After(after) {
			after = *schedule.LastRunAt
		}

		next, err := NextRun(schedule, after, s.loc)
		if err != nil {
			s.log.Warn().Err(err).Int64("schedule_id", schedule.ID).Msg("⚠️  Skipping schedule")
			continue
		}
		if next.After(to) {
			continue
		}
		due = append(due, DueRun{
			Schedule: schemas.NewReportScheduleResponse(schedule),
			RunAt:    next,
		})
	}
	return due, nil
}

// MarkRun records that schedule id ran at ranAt
func (s *ScheduleService) MarkRun(ctx context.Context, id int64, ranAt time.Time) error {
	_, err := database.RunInTransaction(ctx, s.db, func(tx *gorm.DB) (struct{}, error) {
		return struct{}{}, schedules.NewRepository(tx).MarkRun(ctx, id, ranAt)
	})
	return err
}

// NextRun returns the first firing of schedule strictly after t.
// time_of_day is HH:MM in loc; days_of_week uses 0 for Monday and an empty
// list means every day.
func NextRun(schedule *models.ReportSchedule, t time.Time, loc *time.Location) (time.Time, error) {
	spec, err := cronSpec(schedule.TimeOfDay, schedule.DaysOfWeek)
	if err != nil {
		return time.Time{}, err
	}

	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("schedule %d: %w", schedule.ID, err)
	}

	next := sched.Next(t.In(loc))
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("schedule %d never fires", schedule.ID)
	}
	return next.UTC(), nil
}

// cronSpec builds a five-field cron expression; cron counts Sunday as 0
func cronSpec(timeOfDay string, days []int) (string, error) {
	at, err := time.Parse("15:04", strings.TrimSpace(timeOfDay))
	if err != nil {
		return "", fmt.Errorf("invalid time_of_day %q", timeOfDay)
	}

	dow := "*"
	if len(days) > 0 {
		fields := make([]string, len(days))
		for i, d := range days {
			if d < 0 || d > 6 {
				return "", fmt.Errorf("invalid day of week %d", d)
			}
			fields[i] = fmt.Sprint((d + 1) % 7)
		}
		dow = strings.Join(fields, ",")
	}

	return fmt.Sprintf("%d %d * * %s", at.Minute(), at.Hour(), dow), nil
}
