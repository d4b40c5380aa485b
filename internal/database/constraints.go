package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
)

// ConstraintError tags a store failure with the class of constraint that was
// violated. Constraint holds the constraint name when the driver reports it
// (PostgreSQL does, SQLite does not).
type ConstraintError struct {
	Kind       ConstraintKind
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s constraint %q violated: %v", e.Kind, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s constraint violated: %v", e.Kind, e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// Classify converts driver-level constraint violations into *ConstraintError
// and returns every other error unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return &ConstraintError{Kind: ConstraintUnique, Err: err}
		case sqlite3.ErrConstraintForeignKey:
			return &ConstraintError{Kind: ConstraintForeignKey, Err: err}
		}
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return &ConstraintError{Kind: ConstraintUnique, Constraint: pgErr.ConstraintName, Err: err}
		case pgerrcode.ForeignKeyViolation:
			return &ConstraintError{Kind: ConstraintForeignKey, Constraint: pgErr.ConstraintName, Err: err}
		}
	}

	return err
}

// AsConstraint reports whether err is a constraint violation of the given kind.
func AsConstraint(err error, kind ConstraintKind) (*ConstraintError, bool) {
	var ce *ConstraintError
	if errors.As(err, &ce) && ce.Kind == kind {
		return ce, true
	}
	return nil, false
}
