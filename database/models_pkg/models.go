package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReportType is the reporting period of a report or schedule
type ReportType string

const (
	ReportTypeDaily   ReportType = "daily"
	ReportTypeWeekly  ReportType = "weekly"
	ReportTypeMonthly ReportType = "monthly"
	ReportTypeCustom  ReportType = "custom"
)

// ReportTypes lists every valid ReportType
var ReportTypes = []ReportType{ReportTypeDaily, ReportTypeWeekly, ReportTypeMonthly, ReportTypeCustom}

// Valid reports whether t is one of the known report types
func (t ReportType) Valid() bool {
	for _, known := range ReportTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Report represents a generated trading report for one portfolio.
//
// Key Fields:
//   - PortfolioID: Owning portfolio (external portfolios table, id only)
//   - ReportType: daily, weekly, monthly or custom
//   - StartDate/EndDate: Period covered by the report (EndDate >= StartDate is not enforced)
//   - GenerationTime: When the report was produced, defaults to the insert time
//   - ReportData: Opaque JSON payload (metrics, positions, charts)
//   - PDFPath: Optional rendered PDF location
type Report struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	PortfolioID    int64          `gorm:"index:idx_reports_portfolio_time,priority:1;not null" json:"portfolio_id"`
	ReportType     ReportType     `gorm:"size:20;index;not null" json:"report_type"`
	StartDate      time.Time      `gorm:"not null" json:"start_date"`
	EndDate        time.Time      `gorm:"not null" json:"end_date"`
	GenerationTime time.Time      `gorm:"index:idx_reports_portfolio_time,priority:2;not null" json:"generation_time"`
	ReportData     datatypes.JSON `json:"report_data"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	PDFPath        *string        `gorm:"size:512" json:"pdf_path,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for Report
func (Report) TableName() string {
	return "reports"
}

// BeforeCreate fills GenerationTime with the insert time when unset
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.GenerationTime.IsZero() {
		r.GenerationTime = time.Now().UTC()
	}
	return nil
}

// ReportSchedule is a user's standing request for periodic reports.
// TimeOfDay is an HH:MM string and DaysOfWeek holds 0 (Monday) to 6 (Sunday);
// neither is validated on write.
type ReportSchedule struct {
	ID            int64                    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64                    `gorm:"index;not null" json:"user_id"`
	ReportType    ReportType               `gorm:"size:20;not null" json:"report_type"`
	IsActive      bool                     `gorm:"index;not null" json:"is_active"`
	TimeOfDay     string                   `gorm:"size:5;not null" json:"time_of_day"`
	DaysOfWeek    datatypes.JSONSlice[int] `json:"days_of_week"`
	EmailDelivery bool                     `gorm:"not null" json:"email_delivery"`
	InAppDelivery bool                     `gorm:"not null" json:"in_app_delivery"`
	LastRunAt     *time.Time               `json:"last_run_at,omitempty"`
	CreatedAt     time.Time                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for ReportSchedule
func (ReportSchedule) TableName() string {
	return "report_schedules"
}

// SignalFactor is one weighted input that contributed to a trading signal
type SignalFactor struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SignalID       int64     `gorm:"index;not null" json:"signal_id"`
	FactorName     string    `gorm:"size:100;not null" json:"factor_name"`
	FactorValue    float64   `gorm:"not null" json:"factor_value"`
	FactorWeight   float64   `gorm:"not null" json:"factor_weight"`
	FactorCategory string    `gorm:"size:50;index" json:"factor_category"` // technical, sentiment, volume, macro
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for SignalFactor
func (SignalFactor) TableName() string {
	return "signal_factors"
}

// MarketCondition is a daily snapshot of the volatility index and the equity proxy.
//
// Key Fields:
//   - Date: Snapshot date (indexed, not unique)
//   - VIX*: Volatility index OHLC
//   - SPY*: Equity proxy OHLC and volume
//   - ConditionType: Classification such as low_volatility, normal, elevated, crisis
//   - IsUnusual: Flag for days worth surfacing in reports
type MarketCondition struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Date          time.Time `gorm:"index;not null" json:"date"`
	VIXOpen       float64   `gorm:"column:vix_open" json:"vix_open"`
	VIXHigh       float64   `gorm:"column:vix_high" json:"vix_high"`
	VIXLow        float64   `gorm:"column:vix_low" json:"vix_low"`
	VIXClose      float64   `gorm:"column:vix_close" json:"vix_close"`
	SPYOpen       float64   `gorm:"column:spy_open" json:"spy_open"`
	SPYHigh       float64   `gorm:"column:spy_high" json:"spy_high"`
	SPYLow        float64   `gorm:"column:spy_low" json:"spy_low"`
	SPYClose      float64   `gorm:"column:spy_close" json:"spy_close"`
	SPYVolume     int64     `gorm:"column:spy_volume" json:"spy_volume"`
	ConditionType string    `gorm:"size:50;index" json:"condition_type"`
	IsUnusual     bool      `gorm:"index;not null" json:"is_unusual"`
	Notes         string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for MarketCondition
func (MarketCondition) TableName() string {
	return "market_conditions"
}

// All returns every record type in migration order
func All() []interface{} {
	return []interface{}{
		&Report{},
		&ReportSchedule{},
		&SignalFactor{},
		&MarketCondition{},
	}
}
