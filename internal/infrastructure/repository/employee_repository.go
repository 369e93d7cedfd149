package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/hotelpos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) domainRepo.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) GetByAuthUID(ctx context.Context, businessID uuid.UUID, authUID string) (*entity.Employee, error) {
	var employee entity.Employee
	err := r.db.WithContext(ctx).
		First(&employee, "business_id = ? AND auth_uid = ?", businessID, authUID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &employee, err
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	var employee entity.Employee
	err := r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).First(&employee, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &employee, err
}

func (r *employeeRepository) List(ctx context.Context) ([]entity.Employee, error) {
	var employees []entity.Employee
	err := r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).
		Order("created_at ASC").
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Employee{}).
		Scopes(BusinessScope(ctx)).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error
	return count > 0, err
}

func (r *employeeRepository) ExistsByAuthUID(ctx context.Context, authUID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Employee{}).
		Scopes(BusinessScope(ctx)).
		Where("auth_uid = ?", authUID).
		Count(&count).Error
	return count > 0, err
}

func (r *employeeRepository) Create(ctx context.Context, employee *entity.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepository) Update(ctx context.Context, employee *entity.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).Delete(&entity.Employee{}, "id = ?", id).Error
}
