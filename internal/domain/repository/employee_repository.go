package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/hotelpos-api/internal/domain/entity"
)

// EmployeeRepository defines the interface for employee data operations
type EmployeeRepository interface {
	// GetByAuthUID finds the employee record linking an auth user to a
	// business. It is used before a business is in context.
	GetByAuthUID(ctx context.Context, businessID uuid.UUID, authUID string) (*entity.Employee, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error)
	List(ctx context.Context) ([]entity.Employee, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByAuthUID(ctx context.Context, authUID string) (bool, error)
	Create(ctx context.Context, employee *entity.Employee) error
	Update(ctx context.Context, employee *entity.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}
