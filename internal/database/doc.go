// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup (SQLite or PostgreSQL) and migrations
//	├── executor.go      # Query/Mutate wrapper used by the entity services
//	├── constraints.go   # Structured classification of constraint violations
//	└── audit/           # Audit event persistence
//
// # Executor
//
// Entity services never touch *gorm.DB directly. They go through an Executor,
// which scopes each call to one pooled connection, wraps mutations in a
// transaction and classifies driver errors:
//
//	exec := database.NewExecutor(db.DB)
//	err := exec.Mutate(ctx, func(tx *gorm.DB) error {
//		return tx.Raw("INSERT INTO authors (name) VALUES (?) RETURNING id", name).Scan(&id).Error
//	})
//	if ce, ok := database.AsConstraint(err, database.ConstraintForeignKey); ok {
//		// ce.Constraint names the violated constraint when the driver reports it
//	}
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
