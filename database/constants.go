package database

import "time"

// Pool defaults used when the configuration leaves a value unset
const (
	DefaultPoolSize    = 5
	DefaultPoolRecycle = 1 * time.Hour
)

// healthCheckQuery is the trivial round trip issued by HealthCheck
const healthCheckQuery = "SELECT 1"

// Query limits
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ClampLimit maps a caller-supplied limit onto (0, MaxLimit]
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
