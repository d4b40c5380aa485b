// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Entity Service Interfaces
//
// Each HTTP controller depends on a narrow store interface (internal/http/stores.go):
//
//   - AuthorStore, BookStore, StudentStore, LoanStore, FineStore
//
// Services that need another entity's data define the interface themselves
// (internal/services/interfaces.go):
//
//   - LoanCounter: open-loan count used before deactivating a student
//   - LoanGetter: loan lookup used before issuing a fine
//
// ## Audit and Maintenance Interfaces
//
//   - ChangeRecorder, AuditReader: audit trail access (internal/http/stores.go)
//   - AuditMaintainer: audit retention passes (internal/tasks/retention.go)
//   - TaskEnqueuer: scheduled work handed to the task queue (internal/scheduler/audit_cleanup.go)
//
// # Adding a New Entity
//
//  1. Define the record in internal/entities/ with gorm and validate tags.
//
//  2. Create the service in internal/services/ on top of database.Executor:
//
//     type ShelfService struct {
//         exec      *database.Executor
//         validator *validation.Validator
//     }
//
//     func (s *ShelfService) Get(ctx context.Context, id uint) (*entities.Shelf, error)
//
//     Return apperrors kinds, never raw store errors.
//
//  3. Add a store interface and controller in internal/http/ and register
//     the routes in router.go.
//
//  4. Add compile-time check:
//
//     var _ http.ShelfStore = (*services.ShelfService)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
