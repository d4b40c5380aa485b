package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/apperrors"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/validation"
)

type AuthorService struct {
	exec      *database.Executor
	validator *validation.Validator
}

func NewAuthorService(exec *database.Executor, validator *validation.Validator) *AuthorService {
	return &AuthorService{exec: exec, validator: validator}
}

func (s *AuthorService) Get(ctx context.Context, id uint) (*entities.Author, error) {
	var author entities.Author
	err := s.exec.Query(ctx, func(tx *gorm.DB) error {
		return first(tx.Where("id = ?", id).Limit(1).Find(&author))
	})
	if err != nil {
		return nil, lookupError(err, apperrors.NotFound("author %d not found", id), "failed to load author %d", id)
	}
	return &author, nil
}

func (s *AuthorService) List(ctx context.Context) ([]entities.Author, error) {
	authors := []entities.Author{}
	err := s.exec.Query(ctx, func(tx *gorm.DB) error {
		return tx.Order("id").Find(&authors).Error
	})
	if err != nil {
		return nil, apperrors.DataAccess(err, "failed to list authors")
	}
	return authors, nil
}

// Create stores a new author and returns it as persisted.
func (s *AuthorService) Create(ctx context.Context, author entities.Author) (*entities.Author, error) {
	if err := s.validator.Validate(author); err != nil {
		return nil, err
	}

	var id uint
	err := s.exec.Mutate(ctx, func(tx *gorm.DB) error {
		return tx.Raw("INSERT INTO authors (name, birth_year) VALUES (?, ?) RETURNING id",
			author.Name, author.BirthYear).Scan(&id).Error
	})
	if err != nil {
		return nil, apperrors.DataAccess(err, "failed to create author")
	}
	return s.Get(ctx, id)
}

// Update writes only the fields set in patch and returns the refreshed author.
func (s *AuthorService) Update(ctx context.Context, id uint, patch entities.AuthorPatch) (*entities.Author, error) {
	if id == 0 {
		return nil, apperrors.InvalidInput("author id is required")
	}
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil, apperrors.InvalidInput("no fields to update")
	}
	if err := s.validator.Validate(patch); err != nil {
		return nil, err
	}

	err := s.exec.Mutate(ctx, func(tx *gorm.DB) error {
		return tx.Model(&entities.Author{}).Where("id = ?", id).Updates(cols).Error
	})
	if err != nil {
		return nil, apperrors.DataAccess(err, "failed to update author %d", id)
	}
	return s.Get(ctx, id)
}

// ListBooks returns the books an existing author is assigned to.
func (s *AuthorService) ListBooks(ctx context.Context, authorID uint) ([]entities.Book, error) {
	if _, err := s.Get(ctx, authorID); err != nil {
		return nil, err
	}

	books := []entities.Book{}
	err := s.exec.Query(ctx, func(tx *gorm.DB) error {
		return tx.Raw(`SELECT b.isbn, b.title, b.publication_year
			FROM books b
			JOIN book_authors ba ON ba.isbn = b.isbn
			WHERE ba.author_id = ?
			ORDER BY b.title, b.isbn`, authorID).Scan(&books).Error
	})
	if err != nil {
		return nil, apperrors.DataAccess(err, "failed to list books of author %d", authorID)
	}
	return books, nil
}
