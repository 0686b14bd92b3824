package schemas

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	models "trading-reports/database/models_pkg"
)

// ReportCreate is the inbound shape for a new report or a full-record update
type ReportCreate struct {
	PortfolioID int64                  `json:"portfolio_id" validate:"required"`
	ReportType  models.ReportType      `json:"report_type" validate:"required,oneof=daily weekly monthly custom"`
	StartDate   time.Time              `json:"start_date" validate:"required"`
	EndDate     time.Time              `json:"end_date" validate:"required"`
	ReportData  map[string]interface{} `json:"report_data"`
	Title       string                 `json:"title" validate:"required,max=255"`
	PDFPath     *string                `json:"pdf_path,omitempty" validate:"omitempty,max=512"`
}

// ReportResponse is the outbound shape of a stored report
type ReportResponse struct {
	ID             int64                  `json:"id"`
	PortfolioID    int64                  `json:"portfolio_id"`
	ReportType     models.ReportType      `json:"report_type"`
	StartDate      time.Time              `json:"start_date"`
	EndDate        time.Time              `json:"end_date"`
	GenerationTime time.Time              `json:"generation_time"`
	ReportData     map[string]interface{} `json:"report_data"`
	Title          string                 `json:"title"`
	PDFPath        *string                `json:"pdf_path,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// ToModel builds a new record from the request
func (c *ReportCreate) ToModel() (*models.Report, error) {
	r := &models.Report{}
	if err := c.ApplyTo(r); err != nil {
		return nil, err
	}
	return r, nil
}

// ApplyTo overwrites every client-owned field of r.
// Identity and generation time are left alone; period dates are stored in UTC.
func (c *ReportCreate) ApplyTo(r *models.Report) error {
	data := c.ReportData
	if data == nil {
		data = map[string]interface{}{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding report_data: %w", err)
	}

	r.PortfolioID = c.PortfolioID
	r.ReportType = c.ReportType
	r.StartDate = c.StartDate.UTC()
	r.EndDate = c.EndDate.UTC()
	r.ReportData = datatypes.JSON(raw)
	r.Title = c.Title
	r.PDFPath = c.PDFPath
	return nil
}

// NewReportResponse converts a stored report
func NewReportResponse(r *models.Report) (ReportResponse, error) {
	data := map[string]interface{}{}
	if len(r.ReportData) > 0 {
		if err := json.Unmarshal(r.ReportData, &data); err != nil {
			return ReportResponse{}, fmt.Errorf("decoding report_data of report %d: %w", r.ID, err)
		}
	}

	return ReportResponse{
		ID:             r.ID,
		PortfolioID:    r.PortfolioID,
		ReportType:     r.ReportType,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		GenerationTime: r.GenerationTime,
		ReportData:     data,
		Title:          r.Title,
		PDFPath:        r.PDFPath,
		CreatedAt:      r.CreatedAt,
	}, nil
}
