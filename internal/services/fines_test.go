package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/apperrors"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

func TestFineService_Create(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()

	s.mustBook(t, "999", "Tiempo de silencio")
	student := s.mustStudent(t, "Tomás")
	loan := s.mustLoan(t, student.ID, "999")

	t.Run("no fine yet", func(t *testing.T) {
		_, err := s.fines.GetForLoan(ctx, loan.ID)
		assert.True(t, apperrors.IsNotFound(err))
	})

	var fineID uint
	t.Run("first fine", func(t *testing.T) {
		fine, err := s.fines.Create(ctx, entities.Fine{LoanID: loan.ID, Amount: 3.5})
		require.NoError(t, err)
		fineID = fine.ID

		assert.Equal(t, 3.5, fine.Amount)
		require.NotNil(t, fine.FineDate)
		assert.True(t, fine.FineDate.Equal(entities.Today()))
		require.NotNil(t, fine.StudentName)
		assert.Equal(t, "Tomás", *fine.StudentName)
		require.NotNil(t, fine.Title)
		assert.Equal(t, "Tiempo de silencio", *fine.Title)
	})

	t.Run("lookup by loan", func(t *testing.T) {
		fine, err := s.fines.GetForLoan(ctx, loan.ID)
		require.NoError(t, err)
		assert.Equal(t, fineID, fine.ID)
	})

	t.Run("second fine is a conflict", func(t *testing.T) {
		_, err := s.fines.Create(ctx, entities.Fine{LoanID: loan.ID, Amount: 1})
		require.Error(t, err)
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	})
}

func TestFineService_Create_ExplicitDate(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()

	s.mustBook(t, "1000", "Nada")
	student := s.mustStudent(t, "Elena")
	loan := s.mustLoan(t, student.ID, "1000")

	date := mustDate(t, "2025-03-01")
	fine, err := s.fines.Create(ctx, entities.Fine{LoanID: loan.ID, Amount: 10, FineDate: &date})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", fine.FineDate.String())
}

func TestFineService_Create_MissingLoan(t *testing.T) {
	s := setupTestServices(t)

	_, err := s.fines.Create(context.Background(), entities.Fine{LoanID: 404, Amount: 2})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "loan 404 does not exist")
}

func TestOnConstraint(t *testing.T) {
	unnamed := &database.ConstraintError{Kind: database.ConstraintForeignKey}
	fk := &database.ConstraintError{Kind: database.ConstraintForeignKey, Constraint: entities.ConstraintFinesLoan}
	other := &database.ConstraintError{Kind: database.ConstraintForeignKey, Constraint: entities.ConstraintLoansBook}

	assert.True(t, onConstraint(unnamed, entities.ConstraintFinesLoan))
	assert.True(t, onConstraint(fk, entities.ConstraintFinesLoan))
	assert.False(t, onConstraint(other, entities.ConstraintFinesLoan))
}

func TestFineService_Create_InvalidAmount(t *testing.T) {
	s := setupTestServices(t)

	_, err := s.fines.Create(context.Background(), entities.Fine{LoanID: 1, Amount: -1})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestFineService_List(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()

	fines, err := s.fines.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, fines)

	s.mustBook(t, "1100", "Luces de bohemia")
	student := s.mustStudent(t, "Max")
	older := s.mustLoan(t, student.ID, "1100")
	newer := s.mustLoan(t, student.ID, "1100")

	oldDate := mustDate(t, "2024-05-01")
	_, err = s.fines.Create(ctx, entities.Fine{LoanID: older.ID, Amount: 1, FineDate: &oldDate})
	require.NoError(t, err)
	_, err = s.fines.Create(ctx, entities.Fine{LoanID: newer.ID, Amount: 2})
	require.NoError(t, err)

	fines, err = s.fines.List(ctx)
	require.NoError(t, err)
	require.Len(t, fines, 2)
	assert.Equal(t, newer.ID, fines[0].LoanID)
	assert.Equal(t, older.ID, fines[1].LoanID)
}

func TestFineService_Get_NotFound(t *testing.T) {
	s := setupTestServices(t)

	_, err := s.fines.Get(context.Background(), 77)
	assert.True(t, apperrors.IsNotFound(err))
}
