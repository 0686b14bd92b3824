package schemas

import (
	"time"

	"gorm.io/datatypes"

	models "trading-reports/database/models_pkg"
)

// ReportScheduleCreate is the inbound shape for a new schedule.
// days_of_week uses 0 for Monday through 6 for Sunday; an empty list means every day.
type ReportScheduleCreate struct {
	UserID        int64             `json:"user_id" validate:"required"`
	ReportType    models.ReportType `json:"report_type" validate:"required,oneof=daily weekly monthly custom"`
	IsActive      *bool             `json:"is_active" default:"true"`
	TimeOfDay     string            `json:"time_of_day" default:"09:00"`
	DaysOfWeek    []int             `json:"days_of_week" default:"[0,1,2,3,4]"`
	EmailDelivery *bool             `json:"email_delivery" default:"true"`
	InAppDelivery *bool             `json:"in_app_delivery" default:"true"`
}

// ReportScheduleUpdate replaces every mutable field of a schedule
type ReportScheduleUpdate struct {
	ReportType    models.ReportType `json:"report_type" validate:"required,oneof=daily weekly monthly custom"`
	IsActive      *bool             `json:"is_active" default:"true"`
	TimeOfDay     string            `json:"time_of_day" default:"09:00"`
	DaysOfWeek    []int             `json:"days_of_week" default:"[0,1,2,3,4]"`
	EmailDelivery *bool             `json:"email_delivery" default:"true"`
	InAppDelivery *bool             `json:"in_app_delivery" default:"true"`
}

// ReportScheduleResponse is the outbound shape of a stored schedule
type ReportScheduleResponse struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"user_id"`
	ReportType    models.ReportType `json:"report_type"`
	IsActive      bool              `json:"is_active"`
	TimeOfDay     string            `json:"time_of_day"`
	DaysOfWeek    []int             `json:"days_of_week"`
	EmailDelivery bool              `json:"email_delivery"`
	InAppDelivery bool              `json:"in_app_delivery"`
	LastRunAt     *time.Time        `json:"last_run_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ToModel builds a new record; call Validate first so defaults are applied
func (c *ReportScheduleCreate) ToModel() *models.ReportSchedule {
	return &models.ReportSchedule{
		UserID:        c.UserID,
		ReportType:    c.ReportType,
		IsActive:      deref(c.IsActive),
		TimeOfDay:     c.TimeOfDay,
		DaysOfWeek:    datatypes.NewJSONSlice(copyDays(c.DaysOfWeek)),
		EmailDelivery: deref(c.EmailDelivery),
		InAppDelivery: deref(c.InAppDelivery),
	}
}

// ApplyTo overwrites every mutable field of s; call Validate first
func (u *ReportScheduleUpdate) ApplyTo(s *models.ReportSchedule) {
	s.ReportType = u.ReportType
	s.IsActive = deref(u.IsActive)
	s.TimeOfDay = u.TimeOfDay
	s.DaysOfWeek = datatypes.NewJSONSlice(copyDays(u.DaysOfWeek))
	s.EmailDelivery = deref(u.EmailDelivery)
	s.InAppDelivery = deref(u.InAppDelivery)
}

// NewReportScheduleResponse converts a stored schedule
func NewReportScheduleResponse(s *models.ReportSchedule) ReportScheduleResponse {
	return ReportScheduleResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		ReportType:    s.ReportType,
		IsActive:      s.IsActive,
		TimeOfDay:     s.TimeOfDay,
		DaysOfWeek:    copyDays(s.DaysOfWeek),
		EmailDelivery: s.EmailDelivery,
		InAppDelivery: s.InAppDelivery,
		LastRunAt:     s.LastRunAt,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func deref(b *bool) bool {
	return b != nil && *b
}

func copyDays(days []int) []int {
	out := make([]int, len(days))
	copy(out, days)
	return out
}
