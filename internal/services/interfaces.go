package services

import (
	"context"

	"github.com/mrlokans/library/internal/entities"
)

// LoanCounter reports how many loans a student currently holds open.
// StudentService uses it to refuse deactivating a borrower.
type LoanCounter interface {
	CountOpen(ctx context.Context, studentID uint) (int, error)
}

// LoanGetter loads a single enriched loan.
// FineService uses it to confirm a loan exists before fining it.
type LoanGetter interface {
	Get(ctx context.Context, id uint) (*entities.Loan, error)
}
