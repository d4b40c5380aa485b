package database

import (
	"context"

	"gorm.io/gorm"
)

// Executor runs statements on behalf of the entity services. Each call
// borrows a pooled connection for its own duration only. Failures come back
// through Classify, so constraint violations arrive as *ConstraintError.
type Executor struct {
	db *gorm.DB
}

func NewExecutor(db *gorm.DB) *Executor {
	return &Executor{db: db}
}

// Query runs read-only statements.
func (e *Executor) Query(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return Classify(fn(e.db.WithContext(ctx)))
}

// Mutate runs fn in a transaction, committing when fn returns nil and
// rolling back otherwise.
func (e *Executor) Mutate(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return Classify(e.db.WithContext(ctx).Transaction(fn))
}
