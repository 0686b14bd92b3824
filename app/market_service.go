package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"trading-reports/database"
	"trading-reports/database/market"
	models "trading-reports/database/models_pkg"
	"trading-reports/database/signals"
	"trading-reports/schemas"
)

// MarketService records market snapshots and the factors behind trading signals
type MarketService struct {
	db  *database.Database
	log zerolog.Logger
}

// NewMarketService creates a market service
func NewMarketService(db *database.Database, log zerolog.Logger) *MarketService {
	return &MarketService{
		db:  db,
		log: log.With().Str("component", "market").Logger(),
	}
}

// RecordCondition stores one market snapshot
func (s *MarketService) RecordCondition(ctx context.Context, req *schemas.MarketConditionCreate) (schemas.MarketConditionResponse, error) {
	if err := schemas.Validate(ctx, req); err != nil {
		return schemas.MarketConditionResponse{}, err
	}

	saved, err := database.RunInTransaction(ctx, s.db, func(tx *gorm.DB) (*models.MarketCondition, error) {
		condition := req.ToModel()
		if err := market.NewRepository(tx).Save(ctx, condition); err != nil {
			return nil, err
		}
		return condition, nil
	})
	if err != nil {
		return schemas.MarketConditionResponse{}, err
	}

	if saved.IsUnusual {
		s.log.Info().
			Time("date", saved.Date).
			Str("condition", saved.ConditionType).
			Float64("vix_close", saved.VIXClose).
			Msg("🚨 Unusual market condition recorded")
	}
	return schemas.NewMarketConditionResponse(saved), nil
}

// AddSignalFactors validates every factor and stores them all or none
func (s *MarketService) AddSignalFactors(ctx context.Context, reqs []schemas.SignalFactorCreate) ([]schemas.SignalFactorResponse, error) {
	factors := make([]*models.SignalFactor, 0, len(reqs))
	for i := range reqs {
		if err := schemas.Validate(ctx, &reqs[i]); err != nil {
			return nil, err
		}
		factors = append(factors, reqs[i].ToModel())
	}
	if len(factors) == 0 {
		return []schemas.SignalFactorResponse{}, nil
	}

	stored, err := database.RunInTransaction(ctx, s.db, func(tx *gorm.DB) ([]*models.SignalFactor, error) {
		if err := signals.NewRepository(tx).CreateFactors(ctx, factors); err != nil {
			return nil, err
		}
		return factors, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]schemas.SignalFactorResponse, len(stored))
	for i, f := range stored {
		out[i] = schemas.NewSignalFactorResponse(f)
	}
	return out, nil
}

// ConditionsBetween returns the snapshots dated in [start, end], oldest first
func (s *MarketService) ConditionsBetween(ctx context.Context, start, end time.Time) ([]schemas.MarketConditionResponse, error) {
	var list []models.MarketCondition
	err := s.db.WithSession(ctx, func(sess *database.Session) error {
		var err error
		list, err = market.NewRepository(sess.DB()).ListRange(ctx, start, end)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]schemas.MarketConditionResponse, len(list))
	for i := range list {
		out[i] = schemas.NewMarketConditionResponse(&list[i])
	}
	return out, nil
}

// FactorsForSignal returns a signal's factors, heaviest first
func (s *MarketService) FactorsForSignal(ctx context.Context, signalID int64) ([]schemas.SignalFactorResponse, error) {
	var list []models.SignalFactor
	err := s.db.WithSession(ctx, func(sess *database.Session) error {
		var err error
		list, err = signals.NewRepository(sess.DB()).ListBySignal(ctx, signalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]schemas.SignalFactorResponse, len(list))
	for i := range list {
		out[i] = schemas.NewSignalFactorResponse(&list[i])
	}
	return out, nil
}
