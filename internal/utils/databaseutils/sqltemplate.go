package databaseutils

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// SQLTemplate bounds every statement issued through it by Timeout.
type SQLTemplate struct {
	DB      *gorm.DB
	Timeout time.Duration
}

func NewSQLTemplate(db *gorm.DB, timeout time.Duration) *SQLTemplate {
	return &SQLTemplate{
		DB:      db,
		Timeout: timeout,
	}
}

// Session returns a handle bound to ctx with the template timeout applied.
// The caller must invoke cancel once the statement completes.
func (t *SQLTemplate) Session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	return t.DB.WithContext(ctx), cancel
}

// DoTransactionally runs fn inside a transaction. The transaction is committed
// when fn returns nil and rolled back otherwise, including on panic.
func DoTransactionally[T any](ctx context.Context, t *SQLTemplate, fn func(tx *gorm.DB) (T, error)) (T, error) {
	var result T

	db, cancel := t.Session(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		r, err := fn(tx)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// IsUniqueViolation reports whether err comes from a unique constraint,
// whichever driver produced it.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
