package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/apperrors"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/validation"
)

type StudentService struct {
	exec      *database.Executor
	validator *validation.Validator
	loans     LoanCounter
}

func NewStudentService(exec *database.Executor, validator *validation.Validator, loans LoanCounter) *StudentService {
	return &StudentService{exec: exec, validator: validator, loans: loans}
}

func (s *StudentService) Get(ctx context.Context, id uint) (*entities.Student, error) {
	var student entities.Student
	err := s.exec.Query(ctx, func(tx *gorm.DB) error {
		return first(tx.Where("id = ?", id).Limit(1).Find(&student))
	})
	if err != nil {
		return nil, lookupError(err, apperrors.NotFound("student %d not found", id), "failed to load student %d", id)
	}
	return &student, nil
}

// ListActive returns only students whose active flag is set.
func (s *StudentService) ListActive(ctx context.Context) ([]entities.Student, error) {
	students := []entities.Student{}
	err := s.exec.Query(ctx, func(tx *gorm.DB) error {
		return tx.Where("active = ?", true).Order("id").Find(&students).Error
	})
	if err != nil {
		return nil, apperrors.DataAccess(err, "failed to list students")
	}
	return students, nil
}

// Create registers a student. A missing active flag defaults to true.
func (s *StudentService) Create(ctx context.Context, student entities.Student) (*entities.Student, error) {
	if err := s.validator.Validate(student); err != nil {
		return nil, err
	}
	if student.Active == nil {
		student.Active = ptr(true)
	}

	var id uint
	err := s.exec.Mutate(ctx, func(tx *gorm.DB) error {
		return tx.Raw("INSERT INTO students (name, email, age, active) VALUES (?, ?, ?, ?) RETURNING id",
			student.Name, student.Email, student.Age, *student.Active).Scan(&id).Error
	})
	if err != nil {
		return nil, apperrors.DataAccess(err, "failed to create student")
	}
	return s.Get(ctx, id)
}

// Update writes the fields set in patch. Setting active to false is refused
// while the student still holds open loans, or when that cannot be checked.
func (s *StudentService) Update(ctx context.Context, id uint, patch entities.StudentPatch) (*entities.Student, error) {
	if id == 0 {
		return nil, apperrors.InvalidInput("student id is required")
	}
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil, apperrors.InvalidInput("no fields to update")
	}
	if err := s.validator.Validate(patch); err != nil {
		return nil, err
	}

	if patch.Deactivates() {
		open, err := s.loans.CountOpen(ctx, id)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindConflict, err,
				"cannot verify active loans of student %d, deactivation refused", id)
		}
		if open > 0 {
			return nil, apperrors.Conflict("student %d has %d active loans", id, open)
		}
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	err := s.exec.Mutate(ctx, func(tx *gorm.DB) error {
		return tx.Model(&entities.Student{}).Where("id = ?", id).Updates(cols).Error
	})
	if err != nil {
		return nil, apperrors.DataAccess(err, "failed to update student %d", id)
	}
	return s.Get(ctx, id)
}

func (s *StudentService) Deactivate(ctx context.Context, id uint) (*entities.Student, error) {
	return s.Update(ctx, id, entities.StudentPatch{Active: ptr(false)})
}
