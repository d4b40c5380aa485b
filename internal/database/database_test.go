package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(Options{
		Path:     filepath.Join(t.TempDir(), "library.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase(t *testing.T) {
	db := setupTestDB(t)

	assert.NoError(t, db.Ping())
	for _, table := range []string{"authors", "books", "book_authors", "students", "loans", "fines", "audit_events"} {
		assert.True(t, db.DB.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(Options{Driver: "oracle"})
	assert.Error(t, err)

	_, err = NewDatabase(Options{Driver: DriverPostgres})
	assert.Error(t, err)
}

func TestExecutor_Mutate(t *testing.T) {
	db := setupTestDB(t)
	exec := NewExecutor(db.DB)
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		err := exec.Mutate(ctx, func(tx *gorm.DB) error {
			return tx.Exec("INSERT INTO books (isbn, title) VALUES (?, ?)", "111", "Committed").Error
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.DB.Model(&entities.Book{}).Where("isbn = ?", "111").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		boom := errors.New("boom")
		err := exec.Mutate(ctx, func(tx *gorm.DB) error {
			if err := tx.Exec("INSERT INTO books (isbn, title) VALUES (?, ?)", "222", "Rolled back").Error; err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		var count int64
		require.NoError(t, db.DB.Model(&entities.Book{}).Where("isbn = ?", "222").Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestExecutor_ClassifiesSQLiteConstraints(t *testing.T) {
	db := setupTestDB(t)
	exec := NewExecutor(db.DB)
	ctx := context.Background()

	insertBook := func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO books (isbn) VALUES (?)", "dup").Error
	}
	require.NoError(t, exec.Mutate(ctx, insertBook))

	t.Run("duplicate primary key", func(t *testing.T) {
		err := exec.Mutate(ctx, insertBook)
		ce, ok := AsConstraint(err, ConstraintUnique)
		require.True(t, ok, "expected unique violation, got %v", err)
		assert.Empty(t, ce.Constraint)
	})

	t.Run("missing foreign key", func(t *testing.T) {
		err := exec.Mutate(ctx, func(tx *gorm.DB) error {
			return tx.Exec("INSERT INTO book_authors (isbn, author_id) VALUES (?, ?)", "dup", 999).Error
		})
		_, ok := AsConstraint(err, ConstraintForeignKey)
		assert.True(t, ok, "expected foreign key violation, got %v", err)
	})

	t.Run("insert returning surfaces constraint errors", func(t *testing.T) {
		var id uint
		err := exec.Mutate(ctx, func(tx *gorm.DB) error {
			return tx.Raw("INSERT INTO loans (student_id, isbn, loan_date) VALUES (?, ?, CURRENT_DATE) RETURNING id", 42, "dup").Scan(&id).Error
		})
		_, ok := AsConstraint(err, ConstraintForeignKey)
		assert.True(t, ok, "expected foreign key violation, got %v", err)
	})
}

func TestClassify_Postgres(t *testing.T) {
	t.Run("unique violation keeps constraint name", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: entities.ConstraintFinesLoanUnique}
		ce, ok := AsConstraint(Classify(fmt.Errorf("insert: %w", pgErr)), ConstraintUnique)
		require.True(t, ok)
		assert.Equal(t, entities.ConstraintFinesLoanUnique, ce.Constraint)
	})

	t.Run("foreign key violation", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: entities.ConstraintLoansBook}
		ce, ok := AsConstraint(Classify(pgErr), ConstraintForeignKey)
		require.True(t, ok)
		assert.Equal(t, entities.ConstraintLoansBook, ce.Constraint)
	})

	t.Run("other codes pass through", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: pgerrcode.SerializationFailure}
		err := Classify(pgErr)
		_, isConstraint := AsConstraint(err, ConstraintUnique)
		assert.False(t, isConstraint)
		assert.Same(t, pgErr, err)
	})
}

func TestClassify_PassThrough(t *testing.T) {
	assert.Nil(t, Classify(nil))
	assert.Equal(t, gorm.ErrRecordNotFound, Classify(gorm.ErrRecordNotFound))
}
