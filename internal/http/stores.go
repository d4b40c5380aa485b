package http

import (
	"context"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/entities"
)

// This file consolidates the service interfaces used by HTTP controllers.
// Each controller depends only on the operations it serves.

// AuthorStore manages authors.
type AuthorStore interface {
	Get(ctx context.Context, id uint) (*entities.Author, error)
	List(ctx context.Context) ([]entities.Author, error)
	Create(ctx context.Context, author entities.Author) (*entities.Author, error)
	Update(ctx context.Context, id uint, patch entities.AuthorPatch) (*entities.Author, error)
	ListBooks(ctx context.Context, authorID uint) ([]entities.Book, error)
}

// BookStore manages books and their author assignments.
type BookStore interface {
	Get(ctx context.Context, isbn string) (*entities.Book, error)
	List(ctx context.Context) ([]entities.Book, error)
	Create(ctx context.Context, book entities.Book) (*entities.Book, error)
	Update(ctx context.Context, isbn string, patch entities.BookPatch) (*entities.Book, error)
	Delete(ctx context.Context, isbn string) error
	AttachAuthor(ctx context.Context, isbn string, authorID uint) error
	ListAuthors(ctx context.Context, isbn string) ([]entities.Author, error)
	DetachAuthor(ctx context.Context, isbn string, authorID uint) error
}

// StudentStore manages students.
type StudentStore interface {
	Get(ctx context.Context, id uint) (*entities.Student, error)
	ListActive(ctx context.Context) ([]entities.Student, error)
	Create(ctx context.Context, student entities.Student) (*entities.Student, error)
	Update(ctx context.Context, id uint, patch entities.StudentPatch) (*entities.Student, error)
	Deactivate(ctx context.Context, id uint) (*entities.Student, error)
}

// LoanStore manages loans.
type LoanStore interface {
	Get(ctx context.Context, id uint) (*entities.Loan, error)
	Create(ctx context.Context, loan entities.Loan) (*entities.Loan, error)
	RegisterReturn(ctx context.Context, id uint, returnDate entities.Date) (*entities.Loan, error)
	List(ctx context.Context) ([]entities.Loan, error)
	ListForStudent(ctx context.Context, studentID uint) ([]entities.Loan, error)
	ListForBook(ctx context.Context, isbn string) ([]entities.Loan, error)
}

// FineStore manages fines.
type FineStore interface {
	Get(ctx context.Context, id uint) (*entities.Fine, error)
	GetForLoan(ctx context.Context, loanID uint) (*entities.Fine, error)
	List(ctx context.Context) ([]entities.Fine, error)
	Create(ctx context.Context, fine entities.Fine) (*entities.Fine, error)
}

// ChangeRecorder records successful mutations in the audit trail.
type ChangeRecorder interface {
	LogChange(origin audit.Origin, eventType entities.AuditEventType, entityType, entityKey, description string)
}

// AuditReader exposes recorded audit events.
type AuditReader interface {
	GetRecentEvents(limit int) ([]entities.AuditEvent, error)
	GetEventsForEntity(entityType, entityKey string) ([]entities.AuditEvent, error)
}

// changeLog records changes when a recorder is configured.
type changeLog struct {
	recorder ChangeRecorder
}

func (l changeLog) record(origin audit.Origin, eventType entities.AuditEventType, entityType, entityKey, description string) {
	if l.recorder == nil {
		return
	}
	l.recorder.LogChange(origin, eventType, entityType, entityKey, description)
}
