package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/entities"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// sqliteParams turns on foreign key enforcement for every pooled connection.
const sqliteParams = "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"

type Options struct {
	Driver   string // "sqlite" (default) or "postgres"
	Path     string // SQLite database file
	DSN      string // PostgreSQL connection string
	LogLevel string // silent, error, warn, info
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(opts Options) (*Database, error) {
	dialector, target, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(opts.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db}
	if err := database.Migrate(); err != nil {
		return nil, err
	}

	log.Printf("Database initialized successfully at %s", target)

	return database, nil
}

func dialectorFor(opts Options) (gorm.Dialector, string, error) {
	switch opts.Driver {
	case "", DriverSQLite:
		return sqlite.Open(sqliteDSN(opts.Path)), opts.Path, nil
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, "", fmt.Errorf("postgres driver requires a DSN")
		}
		return postgres.Open(opts.DSN), "postgres", nil
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqliteParams
	}
	return path + "?" + sqliteParams
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Migrate provisions every table, including foreign keys and the
// one-fine-per-loan unique index.
func (d *Database) Migrate() error {
	err := d.DB.AutoMigrate(
		&entities.Author{},
		&entities.Book{},
		&entities.BookAuthor{},
		&entities.Student{},
		&entities.Loan{},
		&entities.Fine{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
