package schemas

import (
	"time"

	models "trading-reports/database/models_pkg"
)

// SignalFactorCreate is the inbound shape for one factor of a signal
type SignalFactorCreate struct {
	SignalID       int64    `json:"signal_id" validate:"required"`
	FactorName     string   `json:"factor_name" validate:"required,max=100"`
	FactorValue    float64  `json:"factor_value"`
	FactorWeight   *float64 `json:"factor_weight" default:"1.0"`
	FactorCategory string   `json:"factor_category" validate:"max=50"`
}

// SignalFactorResponse is the outbound shape of a stored factor
type SignalFactorResponse struct {
	ID             int64     `json:"id"`
	SignalID       int64     `json:"signal_id"`
	FactorName     string    `json:"factor_name"`
	FactorValue    float64   `json:"factor_value"`
	FactorWeight   float64   `json:"factor_weight"`
	FactorCategory string    `json:"factor_category"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToModel builds a new record; call Validate first so defaults are applied
func (c *SignalFactorCreate) ToModel() *models.SignalFactor {
	weight := 1.0
	if c.FactorWeight != nil {
		weight = *c.FactorWeight
	}
	return &models.SignalFactor{
		SignalID:       c.SignalID,
		FactorName:     c.FactorName,
		FactorValue:    c.FactorValue,
		FactorWeight:   weight,
		FactorCategory: c.FactorCategory,
	}
}

// NewSignalFactorResponse converts a stored factor
func NewSignalFactorResponse(f *models.SignalFactor) SignalFactorResponse {
	return SignalFactorResponse{
		ID:             f.ID,
		SignalID:       f.SignalID,
		FactorName:     f.FactorName,
		FactorValue:    f.FactorValue,
		FactorWeight:   f.FactorWeight,
		FactorCategory: f.FactorCategory,
		CreatedAt:      f.CreatedAt,
	}
}

// MarketConditionCreate is the inbound shape for a market snapshot
type MarketConditionCreate struct {
	Date          time.Time `json:"date" validate:"required"`
	VIXOpen       float64   `json:"vix_open"`
	VIXHigh       float64   `json:"vix_high"`
	VIXLow        float64   `json:"vix_low"`
	VIXClose      float64   `json:"vix_close"`
	SPYOpen       float64   `json:"spy_open"`
	SPYHigh       float64   `json:"spy_high"`
	SPYLow        float64   `json:"spy_low"`
	SPYClose      float64   `json:"spy_close"`
	SPYVolume     int64     `json:"spy_volume"`
	ConditionType string    `json:"condition_type" validate:"required,max=50"`
	IsUnusual     bool      `json:"is_unusual"`
	Notes         string    `json:"notes,omitempty"`
}

// MarketConditionResponse is the outbound shape of a stored snapshot
type MarketConditionResponse struct {
	ID            int64     `json:"id"`
	Date          time.Time `json:"date"`
	VIXOpen       float64   `json:"vix_open"`
	VIXHigh       float64   `json:"vix_high"`
	VIXLow        float64   `json:"vix_low"`
	VIXClose      float64   `json:"vix_close"`
	SPYOpen       float64   `json:"spy_open"`
	SPYHigh       float64   `json:"spy_high"`
	SPYLow        float64   `json:"spy_low"`
	SPYClose      float64   `json:"spy_close"`
	SPYVolume     int64     `json:"spy_volume"`
	ConditionType string    `json:"condition_type"`
	IsUnusual     bool      `json:"is_unusual"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToModel builds a new record. Date is stored in UTC.
func (c *MarketConditionCreate) ToModel() *models.MarketCondition {
	return &models.MarketCondition{
		Date:          c.Date.UTC(),
		VIXOpen:       c.VIXOpen,
		VIXHigh:       c.VIXHigh,
		VIXLow:        c.VIXLow,
		VIXClose:      c.VIXClose,
		SPYOpen:       c.SPYOpen,
		SPYHigh:       c.SPYHigh,
		SPYLow:        c.SPYLow,
		SPYClose:      c.SPYClose,
		SPYVolume:     c.SPYVolume,
		ConditionType: c.ConditionType,
		IsUnusual:     c.IsUnusual,
		Notes:         c.Notes,
	}
}

// NewMarketConditionResponse converts a stored snapshot
func NewMarketConditionResponse(m *models.MarketCondition) MarketConditionResponse {
	return MarketConditionResponse{
		ID:            m.ID,
		Date:          m.Date,
		VIXOpen:       m.VIXOpen,
		VIXHigh:       m.VIXHigh,
		VIXLow:        m.VIXLow,
		VIXClose:      m.VIXClose,
		SPYOpen:       m.SPYOpen,
		SPYHigh:       m.SPYHigh,
		SPYLow:        m.SPYLow,
		SPYClose:      m.SPYClose,
		SPYVolume:     m.SPYVolume,
		ConditionType: m.ConditionType,
		IsUnusual:     m.IsUnusual,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}
