package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/apperrors"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/validation"
)

const fineSelect = `SELECT f.id, f.loan_id, f.amount, f.fine_date,
	s.name AS student_name, b.title AS title
	FROM fines f
	LEFT JOIN loans l ON l.id = f.loan_id
	LEFT JOIN students s ON s.id = l.student_id
	LEFT JOIN books b ON b.isbn = l.isbn`

type FineService struct {
	exec      *database.Executor
	validator *validation.Validator
	loans     LoanGetter
}

func NewFineService(exec *database.Executor, validator *validation.Validator, loans LoanGetter) *FineService {
	return &FineService{exec: exec, validator: validator, loans: loans}
}

func (s *FineService) Get(ctx context.Context, id uint) (*entities.Fine, error) {
	var fine entities.Fine
	err := s.exec.Query(ctx, func(tx *gorm.DB) error {
		return first(tx.Raw(fineSelect+" WHERE f.id = ?", id).Scan(&fine))
	})
	if err != nil {
		return nil, lookupError(err, apperrors.NotFound("fine %d not found", id), "failed to load fine %d", id)
	}
	return &fine, nil
}

// GetForLoan returns the fine attached to a loan. NotFound is the normal
// answer for a loan that was never fined.
func (s *FineService) GetForLoan(ctx context.Context, loanID uint) (*entities.Fine, error) {
	var fine entities.Fine
	err := s.exec.Query(ctx, func(tx *gorm.DB) error {
		return first(tx.Raw(fineSelect+" WHERE f.loan_id = ?", loanID).Scan(&fine))
	})
	if err != nil {
		return nil, lookupError(err, apperrors.NotFound("loan %d has no associated fine", loanID),
			"failed to load fine of loan %d", loanID)
	}
	return &fine, nil
}

func (s *FineService) List(ctx context.Context) ([]entities.Fine, error) {
	fines := []entities.Fine{}
	err := s.exec.Query(ctx, func(tx *gorm.DB) error {
		return tx.Raw(fineSelect + " ORDER BY f.fine_date DESC, f.id DESC").Scan(&fines).Error
	})
	if err != nil {
		return nil, apperrors.DataAccess(err, "failed to list fines")
	}
	return fines, nil
}

// Create issues a manual fine. A loan carries at most one fine, and the
// fine date defaults to today when not supplied.
func (s *FineService) Create(ctx context.Context, fine entities.Fine) (*entities.Fine, error) {
	if err := s.validator.Validate(fine); err != nil {
		return nil, err
	}

	_, err := s.GetForLoan(ctx, fine.LoanID)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("loan %d already has a fine", fine.LoanID)
	case !apperrors.IsNotFound(err):
		return nil, err
	}

	if _, err := s.loans.Get(ctx, fine.LoanID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Relabel(err, "loan %d does not exist", fine.LoanID)
		}
		return nil, err
	}

	var id uint
	err = s.exec.Mutate(ctx, func(tx *gorm.DB) error {
		return tx.Raw("INSERT INTO fines (loan_id, amount, fine_date) VALUES (?, ?, COALESCE(?, CURRENT_DATE)) RETURNING id",
			fine.LoanID, fine.Amount, fine.FineDate).Scan(&id).Error
	})
	// A concurrent fine or a loan deleted after the checks above surfaces as
	// a constraint violation. SQLite does not name the constraint, so an
	// empty name is read the same way.
	if ce, dup := database.AsConstraint(err, database.ConstraintUnique); dup && onConstraint(ce, entities.ConstraintFinesLoanUnique) {
		return nil, apperrors.Conflict("loan %d already has a fine", fine.LoanID)
	}
	if ce, fk := database.AsConstraint(err, database.ConstraintForeignKey); fk && onConstraint(ce, entities.ConstraintFinesLoan) {
		return nil, apperrors.NotFound("loan %d does not exist", fine.LoanID)
	}
	if err != nil {
		return nil, apperrors.DataAccess(err, "failed to create fine for loan %d", fine.LoanID)
	}
	return s.Get(ctx, id)
}

// onConstraint reports whether ce names want, or names nothing at all.
func onConstraint(ce *database.ConstraintError, want string) bool {
	return ce.Constraint == "" || ce.Constraint == want
}
