package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/domain/enum"
	"github.com/sangkips/hotelpos-api/internal/domain/repository"
	infraRepo "github.com/sangkips/hotelpos-api/internal/infrastructure/repository"
	"github.com/sangkips/hotelpos-api/pkg/apperror"
	"github.com/sangkips/hotelpos-api/pkg/authadmin"
)

// EmployeeService links hosted-auth users to the business.
type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
	auth         authadmin.Admin
	validate     *validator.Validate
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employeeRepo repository.EmployeeRepository, auth authadmin.Admin) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		auth:         auth,
		validate:     NewValidator(),
	}
}

// CreateEmployeeInput represents the create employee input
type CreateEmployeeInput struct {
	Email string            `validate:"required,email,max=255"`
	Name  string            `validate:"required,max=255"`
	Role  enum.EmployeeRole `validate:"required,oneof=admin manager cashier"`
}

// UpdateEmployeeInput represents the update employee input
type UpdateEmployeeInput struct {
	Name string            `validate:"required,max=255"`
	Role enum.EmployeeRole `validate:"required,oneof=admin manager cashier"`
}

// DeleteResult reports a delete that succeeded with a caveat.
type DeleteResult struct {
	Warning string `json:"warning,omitempty"`
}

// List returns every employee of the business
func (s *EmployeeService) List(ctx context.Context) ([]entity.Employee, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if employees == nil {
		employees = []entity.Employee{}
	}
	return employees, nil
}

// Create adds an employee. An existing hosted-auth account with the same
// email is reused; otherwise the person is invited.
func (s *EmployeeService) Create(ctx context.Context, input *CreateEmployeeInput) (*entity.Employee, error) {
	businessID, ok := infraRepo.GetBusinessID(ctx)
	if !ok {
		return nil, apperror.NewForbiddenError("Business context required")
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validate.Struct(input); err != nil {
		return nil, apperror.FromValidator(err)
	}

	exists, err := s.employeeRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflictError("An employee with this email already exists for this business.")
	}

	user, err := s.auth.FindUserByEmail(ctx, input.Email)
	if err != nil {
		log.Printf("Auth user lookup failed for %s: %v", input.Email, err)
		return nil, apperror.NewUpstreamError("Failed to look up auth user", err)
	}
	if user == nil {
		user, err = s.auth.InviteUserByEmail(ctx, input.Email)
		if err != nil {
			log.Printf("Invite failed for %s: %v", input.Email, err)
			return nil, apperror.NewUpstreamError("Failed to invite user", err)
		}
	}

	linked, err := s.employeeRepo.ExistsByAuthUID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, apperror.NewConflictError("This user is already linked to this business.")
	}

	employee := &entity.Employee{
		AuthUID:    user.ID,
		BusinessID: businessID,
		Name:       input.Name,
		Email:      input.Email,
		Role:       input.Role,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, apperror.NewInternalError("Failed to create employee", err)
	}
	return employee, nil
}

// Update changes an employee's name and role
func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, input *UpdateEmployeeInput) (*entity.Employee, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validate.Struct(input); err != nil {
		return nil, apperror.FromValidator(err)
	}

	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}

	employee.Name = input.Name
	employee.Role = input.Role
	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// Delete removes an employee and then their hosted-auth account. A failure
// to remove the account does not undo the row deletion.
func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	if requester, ok := infraRepo.GetEmployeeID(ctx); ok && requester == id {
		return nil, apperror.NewBadRequestError("You cannot delete your own employee account.")
	}

	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("Employee")
		}
		return nil, err
	}

	if err := s.auth.DeleteUser(ctx, employee.AuthUID); err != nil {
		log.Printf("Auth user %s deletion failed: %v", employee.AuthUID, err)
		return &DeleteResult{Warning: "Employee row deleted, but auth user deletion failed."}, nil
	}
	return &DeleteResult{}, nil
}
