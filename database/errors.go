package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// DBError carries the repository operation that failed
type DBError struct {
	Operation string
	Err       error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *DBError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when a lookup by identifier matches no row
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

// URLError rejects a DATABASE_URL the engine cannot dial.
// URL holds the scheme only.
type URLError struct {
	URL    string
	Reason string
}

func (e *URLError) Error() string {
	return fmt.Sprintf("database url %s: %s", e.URL, e.Reason)
}

// WrapDBError tags err with the operation; nil stays nil
func WrapDBError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &DBError{Operation: operation, Err: err}
}

// LookupError converts a single-record lookup error: record-not-found becomes
// a NotFoundError for resource/id, anything else is wrapped with operation.
func LookupError(operation, resource string, id interface{}, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return WrapDBError(operation, err)
}

// RequireAffected checks the result of an update addressed by id.
// Zero affected rows means the record does not exist.
func RequireAffected(result *gorm.DB, operation, resource string, id interface{}) error {
	if result.Error != nil {
		return WrapDBError(operation, result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return nil
}

// IsNotFound reports whether err is, or wraps, a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
