package database

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HealthCheck opens a session and runs a trivial query. Failures are logged
// and reported as false; it never returns an error.
func (d *Database) HealthCheck(ctx context.Context) bool {
	err := d.WithSession(ctx, func(s *Session) error {
		return s.DB().Exec(healthCheckQuery).Error
	})
	if err != nil {
		d.log.Warn().Err(err).Msg("⚠️  Database health check failed")
		return false
	}
	return true
}

// Collectors exposes connection pool statistics for a Prometheus registry
func (d *Database) Collectors() []prometheus.Collector {
	sqlDB, err := d.db.DB()
	if err != nil {
		d.log.Warn().Err(err).Msg("Pool statistics unavailable")
		return nil
	}
	return []prometheus.Collector{
		collectors.NewDBStatsCollector(sqlDB, "reports"),
	}
}
