// Package database provides pooled datastore access for the trading-reports service.
//
// This package includes:
//   - Engine construction over GORM (PostgreSQL via pgx, SQLite for local runs and tests)
//   - Scoped sessions that always release their connection
//   - A transaction helper that commits once or rolls back
//   - Schema initialization and a health probe
//
// Record types (Report, ReportSchedule, SignalFactor, MarketCondition) live in
// models_pkg; the per-record repositories live in the reports, schedules,
// signals and market subpackages.
package database
