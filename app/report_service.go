package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"trading-reports/cache"
	"trading-reports/database"
	models "trading-reports/database/models_pkg"
	"trading-reports/database/reports"
	"trading-reports/schemas"
)

// ReportCache is the subset of *cache.RedisClient the report service needs
type ReportCache interface {
	Enabled() bool
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ReportService stores reports and serves them through the Redis cache
type ReportService struct {
	db    *database.Database
	cache ReportCache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewReportService creates a report service. A nil *cache.RedisClient disables caching.
func NewReportService(db *database.Database, reportCache ReportCache, ttl time.Duration, log zerolog.Logger) *ReportService {
	if reportCache == nil {
		reportCache = (*cache.RedisClient)(nil)
	}
	return &ReportService{
		db:    db,
		cache: reportCache,
		ttl:   ttl,
		log:   log.With().Str("component", "reports").Logger(),
	}
}

// CreateReport validates req and persists it in one transaction
func (s *ReportService) CreateReport(ctx context.Context, req *schemas.ReportCreate) (schemas.ReportResponse, error) {
	if err := schemas.Validate(ctx, req); err != nil {
		return schemas.ReportResponse{}, err
	}

	report, err := req.ToModel()
	if err != nil {
		return schemas.ReportResponse{}, err
	}

	created, err := database.RunInTransaction(ctx, s.db, func(tx *gorm.DB) (*models.Report, error) {
		if err := reports.NewRepository(tx).Create(ctx, report); err != nil {
			return nil, err
		}
		return report, nil
	})
	if err != nil {
		return schemas.ReportResponse{}, err
	}

	resp, err := schemas.NewReportResponse(created)
	if err != nil {
		return schemas.ReportResponse{}, err
	}

	s.log.Info().
		Int64("report_id", resp.ID).
		Int64("portfolio_id", resp.PortfolioID).
		Str("type", string(resp.ReportType)).
		Msg("📝 Report stored")

	s.remember(ctx, resp)
	return resp, nil
}

// GetReport returns one report, from cache when possible
func (s *ReportService) GetReport(ctx context.Context, id int64) (schemas.ReportResponse, error) {
	var resp schemas.ReportResponse
	err := s.cache.Get(ctx, cache.ReportKey(id), &resp)
	if err == nil {
		return resp, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn().Err(err).Int64("report_id", id).Msg("⚠️  Cache read failed")
	}

	var report *models.Report
	err = s.db.WithSession(ctx, func(sess *database.Session) error {
		var err error
		report, err = reports.NewRepository(sess.DB()).GetByID(ctx, id)
		return err
	})
	if err != nil {
		return schemas.ReportResponse{}, err
	}

	resp, err = schemas.NewReportResponse(report)
	if err != nil {
		return schemas.ReportResponse{}, err
	}

	s.remember(ctx, resp)
	return resp, nil
}

// ListReports returns a portfolio's reports, newest first.
// An empty reportType lists every type.
func (s *ReportService) ListReports(ctx context.Context, portfolioID int64, reportType models.ReportType, limit int) ([]schemas.ReportResponse, error) {
	var list []models.Report
	err := s.db.WithSession(ctx, func(sess *database.Session) error {
		var err error
		list, err = reports.NewRepository(sess.DB()).ListByPortfolio(ctx, portfolioID, reportType, limit)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]schemas.ReportResponse, 0, len(list))
	for i := range list {
		resp, err := schemas.NewReportResponse(&list[i])
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// UpdateReport replaces every client-owned field of report id
func (s *ReportService) UpdateReport(ctx context.Context, id int64, req *schemas.ReportCreate) (schemas.ReportResponse, error) {
	if err := schemas.Validate(ctx, req); err != nil {
		return schemas.ReportResponse{}, err
	}

	updated, err := database.RunInTransaction(ctx, s.db, func(tx *gorm.DB) (*models.Report, error) {
		repo := reports.NewRepository(tx)
		report, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := req.ApplyTo(report); err != nil {
			return nil, err
		}
		if err := repo.Update(ctx, report); err != nil {
			return nil, err
		}
		return report, nil
	})
	if err != nil {
		return schemas.ReportResponse{}, err
	}

	resp, err := schemas.NewReportResponse(updated)
	if err != nil {
		return schemas.ReportResponse{}, err
	}

	// Overwrite rather than delete. A GetReport that read the old row before
	// the commit can still write it back afterwards; that copy lives until TTL.
	s.remember(ctx, resp)
	return resp, nil
}

// PruneGeneratedBefore deletes every report generated before cutoff, one
// transaction per batch, and drops the deleted reports from the cache.
func (s *ReportService) PruneGeneratedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	total := 0
	for {
		ids, err := database.RunInTransaction(ctx, s.db, func(tx *gorm.DB) ([]int64, error) {
			repo := reports.NewRepository(tx)
			batch, err := repo.ListGeneratedBetween(ctx, time.Time{}, cutoff, database.MaxLimit)
			if err != nil {
				return nil, err
			}
			ids := make([]int64, len(batch))
			for i := range batch {
				ids[i] = batch[i].ID
			}
			if _, err := repo.DeleteByIDs(ctx, ids); err != nil {
				return nil, err
			}
			return ids, nil
		})
		if err != nil {
			return total, err
		}

		for _, id := range ids {
			if err := s.cache.Delete(ctx, cache.ReportKey(id)); err != nil {
				s.log.Warn().Err(err).Int64("report_id", id).Msg("⚠️  Cache invalidation failed")
			}
		}
		total += len(ids)

		if len(ids) < database.MaxLimit {
			break
		}
	}

	if total > 0 {
		s.log.Info().Int("count", total).Time("cutoff", cutoff).Msg("🧹 Expired reports pruned")
	}
	return total, nil
}

func (s *ReportService) remember(ctx context.Context, resp schemas.ReportResponse) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Set(ctx, cache.ReportKey(resp.ID), resp, s.ttl); err != nil {
		s.log.Warn().Err(err).Int64("report_id", resp.ID).Msg("⚠️  Cache write failed")
	}
}
