package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/tasks"
)

// =============================================================================
// Entity Services
// =============================================================================

var _ http.AuthorStore = (*services.AuthorService)(nil)
var _ http.BookStore = (*services.BookService)(nil)
var _ http.StudentStore = (*services.StudentService)(nil)
var _ http.LoanStore = (*services.LoanService)(nil)
var _ http.FineStore = (*services.FineService)(nil)

// Cross-service edges
var _ services.LoanCounter = (*services.LoanService)(nil)
var _ services.LoanGetter = (*services.LoanService)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ http.ChangeRecorder = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
var _ tasks.AuditMaintainer = (*audit.Service)(nil)

// =============================================================================
// Infrastructure
// =============================================================================

var _ http.Pinger = (*database.Database)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
var _ http.TaskQueueStatus = (*tasks.Client)(nil)
var _ scheduler.TaskEnqueuer = (*tasks.Client)(nil)
