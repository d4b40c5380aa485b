package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/apperrors"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/validation"
)

// MaxOpenLoans is how many unreturned loans a student may hold at once.
const MaxOpenLoans = 5

// ErrCountUnknown is wrapped by CountOpen when the store could not answer.
// Callers decide whether that blocks the operation.
var ErrCountUnknown = errors.New("open loan count unknown")

const loanSelect = `SELECT l.id, l.student_id, l.isbn, l.loan_date, l.return_date,
	s.name AS student_name, b.title AS title
	FROM loans l
	LEFT JOIN students s ON s.id = l.student_id
	LEFT JOIN books b ON b.isbn = l.isbn`

const loanOrder = ` ORDER BY l.loan_date DESC, l.id DESC`

type LoanService struct {
	exec      *database.Executor
	validator *validation.Validator
}

func NewLoanService(exec *database.Executor, validator *validation.Validator) *LoanService {
	return &LoanService{exec: exec, validator: validator}
}

// Get returns the loan with the borrower's name and the book title joined in.
func (s *LoanService) Get(ctx context.Context, id uint) (*entities.Loan, error) {
	var loan entities.Loan
	err := s.exec.Query(ctx, func(tx *gorm.DB) error {
		return first(tx.Raw(loanSelect+" WHERE l.id = ?", id).Scan(&loan))
	})
	if err != nil {
		return nil, lookupError(err, apperrors.NotFound("loan %d not found", id), "failed to load loan %d", id)
	}
	return &loan, nil
}

// CountOpen counts the student's loans without a return date. A failure
// wraps ErrCountUnknown.
func (s *LoanService) CountOpen(ctx context.Context, studentID uint) (int, error) {
	var count int64
	err := s.exec.Query(ctx, func(tx *gorm.DB) error {
		return tx.Model(&entities.Loan{}).
			Where("student_id = ? AND return_date IS NULL", studentID).
			Count(&count).Error
	})
	if err != nil {
		return 0, apperrors.DataAccess(fmt.Errorf("%w: %w", ErrCountUnknown, err),
			"failed to count open loans for student %d", studentID)
	}
	return int(count), nil
}

// Create lends a book to a student, dated today by the store.
func (s *LoanService) Create(ctx context.Context, loan entities.Loan) (*entities.Loan, error) {
	if err := s.validator.Validate(loan); err != nil {
		return nil, err
	}

	open, err := s.CountOpen(ctx, loan.StudentID)
	if err != nil {
		// Without a reliable count the limit is assumed reached.
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, err,
			"cannot verify active loans of student %d, loan refused", loan.StudentID)
	}
	if open >= MaxOpenLoans {
		return nil, apperrors.InvalidInput("limit of %d active loans reached for student %d", MaxOpenLoans, loan.StudentID)
	}

	var id uint
	err = s.exec.Mutate(ctx, func(tx *gorm.DB) error {
		return tx.Raw("INSERT INTO loans (student_id, isbn, loan_date) VALUES (?, ?, CURRENT_DATE) RETURNING id",
			loan.StudentID, loan.BookISBN).Scan(&id).Error
	})
	if ce, fk := database.AsConstraint(err, database.ConstraintForeignKey); fk {
		return nil, s.missingReference(ctx, ce, loan)
	}
	if err != nil {
		return nil, apperrors.DataAccess(err, "failed to create loan")
	}
	return s.Get(ctx, id)
}

// missingReference names the side of a loan whose foreign key failed. When
// the driver does not report the constraint, the student row is looked up.
func (s *LoanService) missingReference(ctx context.Context, ce *database.ConstraintError, loan entities.Loan) error {
	studentMissing := apperrors.NotFound("student %d not found", loan.StudentID)
	bookMissing := apperrors.NotFound("book %s not found", loan.BookISBN)

	switch ce.Constraint {
	case entities.ConstraintLoansStudent:
		return studentMissing
	case entities.ConstraintLoansBook:
		return bookMissing
	}

	var students int64
	err := s.exec.Query(ctx, func(tx *gorm.DB) error {
		return tx.Model(&entities.Student{}).Where("id = ?", loan.StudentID).Count(&students).Error
	})
	if err != nil {
		return apperrors.DataAccess(err, "failed to create loan")
	}
	if students == 0 {
		return studentMissing
	}
	return bookMissing
}

// RegisterReturn closes an open loan. A returned loan cannot be returned again.
func (s *LoanService) RegisterReturn(ctx context.Context, id uint, returnDate entities.Date) (*entities.Loan, error) {
	loan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !loan.IsOpen() {
		return nil, apperrors.InvalidInput("loan %d was already returned on %s", id, loan.ReturnDate)
	}

	var affected int64
	err = s.exec.Mutate(ctx, func(tx *gorm.DB) error {
		res := tx.Exec("UPDATE loans SET return_date = ? WHERE id = ? AND return_date IS NULL", returnDate, id)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return nil, apperrors.DataAccess(err, "failed to register return of loan %d", id)
	}
	if affected == 0 {
		return nil, apperrors.InvalidInput("loan %d was already returned", id)
	}
	return s.Get(ctx, id)
}

func (s *LoanService) List(ctx context.Context) ([]entities.Loan, error) {
	return s.list(ctx, loanSelect+loanOrder, "failed to list loans")
}

func (s *LoanService) ListForStudent(ctx context.Context, studentID uint) ([]entities.Loan, error) {
	return s.list(ctx, loanSelect+" WHERE l.student_id = ?"+loanOrder,
		fmt.Sprintf("failed to list loans of student %d", studentID), studentID)
}

func (s *LoanService) ListForBook(ctx context.Context, isbn string) ([]entities.Loan, error) {
	return s.list(ctx, loanSelect+" WHERE l.isbn = ?"+loanOrder,
		fmt.Sprintf("failed to list loans of book %s", isbn), isbn)
}

func (s *LoanService) list(ctx context.Context, query, failure string, args ...any) ([]entities.Loan, error) {
	loans := []entities.Loan{}
	err := s.exec.Query(ctx, func(tx *gorm.DB) error {
		return tx.Raw(query, args...).Scan(&loans).Error
	})
	if err != nil {
		return nil, apperrors.DataAccess(err, "%s", failure)
	}
	return loans, nil
}
