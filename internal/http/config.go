package http

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Entity services
	Authors  AuthorStore
	Books    BookStore
	Students StudentStore
	Loans    LoanStore
	Fines    FineStore

	// Store connectivity for health checks
	Database Pinger

	// Audit trail (optional). Recorder and Reader are usually the same
	// *audit.Service.
	AuditRecorder ChangeRecorder
	AuditReader   AuditReader

	// Task queue client (optional)
	TaskClient         TaskQueue
	TaskStatus         TaskQueueStatus
	AuditRetentionDays int

	// Per-client rate limiting (optional)
	RateLimiter *RateLimiter

	// Application info
	Version string
}
