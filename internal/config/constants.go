package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the SQLite library database
	DefaultDatabasePath = "./library.db"

	// DefaultAuditCleanupSchedule runs retention cleanup daily at 03:00
	DefaultAuditCleanupSchedule = "0 3 * * *"
)
