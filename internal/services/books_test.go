package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/apperrors"
	"github.com/mrlokans/library/internal/entities"
)

func TestBookService_CreateAndGet(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()

	created, err := s.books.Create(ctx, entities.Book{ISBN: "978-0-0000-0000-0", Title: ptr("Rayuela"), PublicationYear: ptr(1963)})
	require.NoError(t, err)
	assert.Equal(t, "978-0-0000-0000-0", created.ISBN)

	got, err := s.books.Get(ctx, "978-0-0000-0000-0")
	require.NoError(t, err)
	assert.Equal(t, "Rayuela", *got.Title)
	assert.Equal(t, 1963, *got.PublicationYear)
}

func TestBookService_Create_DuplicateISBN(t *testing.T) {
	s := setupTestServices(t)
	s.mustBook(t, "111", "First")

	_, err := s.books.Create(context.Background(), entities.Book{ISBN: "111", Title: ptr("Second")})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "already exists")
}

func TestBookService_Create_Invalid(t *testing.T) {
	s := setupTestServices(t)

	_, err := s.books.Create(context.Background(), entities.Book{ISBN: "1", PublicationYear: ptr(1200)})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestBookService_Update(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()

	_, err := s.books.Create(ctx, entities.Book{ISBN: "222", Title: ptr("Old title"), PublicationYear: ptr(1990)})
	require.NoError(t, err)

	t.Run("empty patch is rejected", func(t *testing.T) {
		_, err := s.books.Update(ctx, "222", entities.BookPatch{})
		assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
	})

	t.Run("single field", func(t *testing.T) {
		updated, err := s.books.Update(ctx, "222", entities.BookPatch{Title: ptr("New title")})
		require.NoError(t, err)
		assert.Equal(t, "New title", *updated.Title)
		assert.Equal(t, 1990, *updated.PublicationYear)
	})

	t.Run("unknown book", func(t *testing.T) {
		_, err := s.books.Update(ctx, "missing", entities.BookPatch{Title: ptr("x")})
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestBookService_Delete(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()

	t.Run("unreferenced book", func(t *testing.T) {
		s.mustBook(t, "free", "Free book")
		require.NoError(t, s.books.Delete(ctx, "free"))

		_, err := s.books.Get(ctx, "free")
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("book with an author", func(t *testing.T) {
		s.mustBook(t, "authored", "Authored")
		author := s.mustAuthor(t, "Rosalía de Castro")
		require.NoError(t, s.books.AttachAuthor(ctx, "authored", author.ID))

		err := s.books.Delete(ctx, "authored")
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

		_, err = s.books.Get(ctx, "authored")
		assert.NoError(t, err)
	})

	t.Run("book with a loan", func(t *testing.T) {
		s.mustBook(t, "lent", "Lent")
		student := s.mustStudent(t, "Lucía")
		s.mustLoan(t, student.ID, "lent")

		err := s.books.Delete(ctx, "lent")
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	})

	t.Run("unknown book", func(t *testing.T) {
		err := s.books.Delete(ctx, "nope")
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestBookService_Authors(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()

	s.mustBook(t, "333", "Ficciones")
	author := s.mustAuthor(t, "Jorge Luis Borges")

	t.Run("attach", func(t *testing.T) {
		require.NoError(t, s.books.AttachAuthor(ctx, "333", author.ID))

		authors, err := s.books.ListAuthors(ctx, "333")
		require.NoError(t, err)
		require.Len(t, authors, 1)
		assert.Equal(t, author.ID, authors[0].ID)
	})

	t.Run("attach twice is a conflict", func(t *testing.T) {
		err := s.books.AttachAuthor(ctx, "333", author.ID)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
		assert.Contains(t, err.Error(), "already assigned")
	})

	t.Run("unknown author", func(t *testing.T) {
		err := s.books.AttachAuthor(ctx, "333", 999)
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
		assert.Contains(t, err.Error(), "author 999")
	})

	t.Run("unknown book", func(t *testing.T) {
		err := s.books.AttachAuthor(ctx, "missing", author.ID)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("detach", func(t *testing.T) {
		require.NoError(t, s.books.DetachAuthor(ctx, "333", author.ID))

		authors, err := s.books.ListAuthors(ctx, "333")
		require.NoError(t, err)
		assert.Empty(t, authors)
	})

	t.Run("detach is idempotent", func(t *testing.T) {
		assert.NoError(t, s.books.DetachAuthor(ctx, "333", author.ID))
		assert.NoError(t, s.books.DetachAuthor(ctx, "missing", 12345))
	})

	t.Run("list authors of unknown book", func(t *testing.T) {
		_, err := s.books.ListAuthors(ctx, "missing")
		assert.True(t, apperrors.IsNotFound(err))
	})
}
