package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/validation"
)

type testServices struct {
	db       *database.Database
	authors  *AuthorService
	books    *BookService
	students *StudentService
	loans    *LoanService
	fines    *FineService
}

// setupTestServices wires every service against a fresh SQLite file.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	db, err := database.NewDatabase(database.Options{
		Path:     filepath.Join(t.TempDir(), "library.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	exec := database.NewExecutor(db.DB)
	v := validation.New()
	loans := NewLoanService(exec, v)

	return &testServices{
		db:       db,
		authors:  NewAuthorService(exec, v),
		books:    NewBookService(exec, v),
		students: NewStudentService(exec, v, loans),
		loans:    loans,
		fines:    NewFineService(exec, v, loans),
	}
}

func (s *testServices) mustBook(t *testing.T, isbn, title string) *entities.Book {
	t.Helper()
	book, err := s.books.Create(context.Background(), entities.Book{ISBN: isbn, Title: ptr(title)})
	require.NoError(t, err)
	return book
}

func (s *testServices) mustStudent(t *testing.T, name string) *entities.Student {
	t.Helper()
	student, err := s.students.Create(context.Background(), entities.Student{Name: ptr(name)})
	require.NoError(t, err)
	return student
}

func (s *testServices) mustAuthor(t *testing.T, name string) *entities.Author {
	t.Helper()
	author, err := s.authors.Create(context.Background(), entities.Author{Name: name})
	require.NoError(t, err)
	return author
}

func (s *testServices) mustLoan(t *testing.T, studentID uint, isbn string) *entities.Loan {
	t.Helper()
	loan, err := s.loans.Create(context.Background(), entities.Loan{StudentID: studentID, BookISBN: isbn})
	require.NoError(t, err)
	return loan
}

func mustDate(t *testing.T, s string) entities.Date {
	t.Helper()
	d, err := entities.ParseDate(s)
	require.NoError(t, err)
	return d
}
