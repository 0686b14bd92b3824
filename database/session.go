package database

import (
	"context"

	"gorm.io/gorm"
)

// Session is one unit of work's handle on the datastore. It opens a
// transaction on first use and holds one pooled connection while that
// transaction is open. A Session must not be shared between goroutines.
type Session struct {
	root *gorm.DB
	tx   *gorm.DB
}

// DB returns the session's transaction, beginning one if none is open
func (s *Session) DB() *gorm.DB {
	if s.tx == nil {
		s.tx = s.root.Begin()
	}
	return s.tx
}

// Commit commits the open transaction, if any. The session stays usable;
// the next DB call begins a new transaction.
func (s *Session) Commit() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if tx.Error != nil {
		return WrapDBError("begin", tx.Error)
	}
	return WrapDBError("commit", tx.Commit().Error)
}

// Rollback discards the open transaction, if any
func (s *Session) Rollback() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if tx.Error != nil {
		return nil
	}
	return WrapDBError("rollback", tx.Rollback().Error)
}

// WithSession runs fn with a fresh Session and releases it on every exit path.
// Work fn did not commit is discarded. If fn returns an error or panics the
// open transaction is rolled back; the error is logged and returned as is and
// a panic is re-raised.
func (d *Database) WithSession(ctx context.Context, fn func(s *Session) error) (err error) {
	s := &Session{root: d.db.WithContext(ctx)}

	defer func() {
		if r := recover(); r != nil {
			if rbErr := s.Rollback(); rbErr != nil {
				d.log.Error().Err(rbErr).Msg("Rollback after panic failed")
			}
			d.log.Error().Interface("panic", r).Msg("Session aborted, rolled back")
			panic(r)
		}
	}()

	if err = fn(s); err != nil {
		if rbErr := s.Rollback(); rbErr != nil {
			d.log.Error().Err(rbErr).Msg("Rollback failed")
		}
		d.log.Error().Err(err).Msg("Session error, rolled back")
		return err
	}

	if rbErr := s.Rollback(); rbErr != nil {
		d.log.Warn().Err(rbErr).Msg("Failed to discard uncommitted session work")
	}
	return nil
}

// RunInTransaction runs fn inside a fresh session. The transaction is committed
// once when fn succeeds; when fn fails it is rolled back and fn's error returned.
func RunInTransaction[T any](ctx context.Context, d *Database, fn func(tx *gorm.DB) (T, error)) (T, error) {
	var result T
	err := d.WithSession(ctx, func(s *Session) error {
		value, err := fn(s.DB())
		if err != nil {
			return err
		}
		if err := s.Commit(); err != nil {
			return err
		}
		result = value
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
