package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/apperrors"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/validation"
)

type BookService struct {
	exec      *database.Executor
	validator *validation.Validator
}

func NewBookService(exec *database.Executor, validator *validation.Validator) *BookService {
	return &BookService{exec: exec, validator: validator}
}

func (s *BookService) Get(ctx context.Context, isbn string) (*entities.Book, error) {
	var book entities.Book
	err := s.exec.Query(ctx, func(tx *gorm.DB) error {
		return first(tx.Where("isbn = ?", isbn).Limit(1).Find(&book))
	})
	if err != nil {
		return nil, lookupError(err, apperrors.NotFound("book %s not found", isbn), "failed to load book %s", isbn)
	}
	return &book, nil
}

func (s *BookService) List(ctx context.Context) ([]entities.Book, error) {
	books := []entities.Book{}
	err := s.exec.Query(ctx, func(tx *gorm.DB) error {
		return tx.Order("isbn").Find(&books).Error
	})
	if err != nil {
		return nil, apperrors.DataAccess(err, "failed to list books")
	}
	return books, nil
}

// Create stores a book under its client-supplied ISBN. The ISBN must be unused.
func (s *BookService) Create(ctx context.Context, book entities.Book) (*entities.Book, error) {
	if err := s.validator.Validate(book); err != nil {
		return nil, err
	}

	_, err := s.Get(ctx, book.ISBN)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("ISBN %s already exists", book.ISBN)
	case !apperrors.IsNotFound(err):
		return nil, err
	}

	err = s.exec.Mutate(ctx, func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO books (isbn, title, publication_year) VALUES (?, ?, ?)",
			book.ISBN, book.Title, book.PublicationYear).Error
	})
	if _, dup := database.AsConstraint(err, database.ConstraintUnique); dup {
		return nil, apperrors.Conflict("ISBN %s already exists", book.ISBN)
	}
	if err != nil {
		return nil, apperrors.DataAccess(err, "failed to create book %s", book.ISBN)
	}
	return s.Get(ctx, book.ISBN)
}

func (s *BookService) Update(ctx context.Context, isbn string, patch entities.BookPatch) (*entities.Book, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil, apperrors.InvalidInput("no fields to update")
	}
	if err := s.validator.Validate(patch); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, isbn); err != nil {
		return nil, err
	}

	err := s.exec.Mutate(ctx, func(tx *gorm.DB) error {
		return tx.Model(&entities.Book{}).Where("isbn = ?", isbn).Updates(cols).Error
	})
	if err != nil {
		return nil, apperrors.DataAccess(err, "failed to update book %s", isbn)
	}
	return s.Get(ctx, isbn)
}

// Delete removes a book. Any store failure here means the book is still
// referenced by loans or author assignments, and is reported as a conflict.
func (s *BookService) Delete(ctx context.Context, isbn string) error {
	if _, err := s.Get(ctx, isbn); err != nil {
		return err
	}

	err := s.exec.Mutate(ctx, func(tx *gorm.DB) error {
		return tx.Exec("DELETE FROM books WHERE isbn = ?", isbn).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.KindConflict, err, "book %s cannot be deleted while it has loans or assigned authors", isbn)
	}
	return nil
}

func (s *BookService) AttachAuthor(ctx context.Context, isbn string, authorID uint) error {
	if _, err := s.Get(ctx, isbn); err != nil {
		return err
	}

	err := s.exec.Mutate(ctx, func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO book_authors (isbn, author_id) VALUES (?, ?)", isbn, authorID).Error
	})
	if err == nil {
		return nil
	}
	if _, dup := database.AsConstraint(err, database.ConstraintUnique); dup {
		return apperrors.Conflict("author %d is already assigned to book %s", authorID, isbn)
	}
	if ce, fk := database.AsConstraint(err, database.ConstraintForeignKey); fk {
		switch ce.Constraint {
		case entities.ConstraintBookAuthorsBook:
			return apperrors.NotFound("book %s not found", isbn)
		case entities.ConstraintBookAuthorsAuthor, "":
			// The book was just confirmed, so an unnamed violation is on the author side.
			return apperrors.NotFound("author %d not found", authorID)
		}
	}
	return apperrors.DataAccess(err, "failed to assign author %d to book %s", authorID, isbn)
}

func (s *BookService) ListAuthors(ctx context.Context, isbn string) ([]entities.Author, error) {
	if _, err := s.Get(ctx, isbn); err != nil {
		return nil, err
	}

	authors := []entities.Author{}
	err := s.exec.Query(ctx, func(tx *gorm.DB) error {
		return tx.Raw(`SELECT a.id, a.name, a.birth_year
			FROM authors a
			JOIN book_authors ba ON ba.author_id = a.id
			WHERE ba.isbn = ?
			ORDER BY a.name, a.id`, isbn).Scan(&authors).Error
	})
	if err != nil {
		return nil, apperrors.DataAccess(err, "failed to list authors of book %s", isbn)
	}
	return authors, nil
}

// DetachAuthor removes the assignment if present. Removing a missing
// assignment is not an error.
func (s *BookService) DetachAuthor(ctx context.Context, isbn string, authorID uint) error {
	err := s.exec.Mutate(ctx, func(tx *gorm.DB) error {
		return tx.Exec("DELETE FROM book_authors WHERE isbn = ? AND author_id = ?", isbn, authorID).Error
	})
	if err != nil {
		return apperrors.DataAccess(err, "failed to remove author %d from book %s", authorID, isbn)
	}
	return nil
}
