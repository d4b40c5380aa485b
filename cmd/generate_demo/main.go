// Command generate_demo creates a demo database with sample library records.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/demo"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/validation"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(database.Options{Driver: database.DriverSQLite, Path: *dbPath, LogLevel: "warn"})
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	exec := database.NewExecutor(db.DB)
	validator := validation.New()
	loans := services.NewLoanService(exec, validator)

	summary, err := demo.Seed(context.Background(), demo.Services{
		Authors:  services.NewAuthorService(exec, validator),
		Books:    services.NewBookService(exec, validator),
		Students: services.NewStudentService(exec, validator, loans),
		Loans:    loans,
		Fines:    services.NewFineService(exec, validator, loans),
	})
	if err != nil {
		log.Fatalf("Failed to seed demo database: %v", err)
	}

	log.Printf("Created %d authors, %d books, %d students, %d loans, %d fines",
		summary.Authors, summary.Books, summary.Students, summary.Loans, summary.Fines)
	log.Println("Demo database generated successfully!")
}
