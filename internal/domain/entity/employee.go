package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/hotelpos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Employee links a hosted-auth user to a business with a role.
type Employee struct {
	ID         uuid.UUID         `gorm:"type:varchar(36);primaryKey" json:"id"`
	AuthUID    string            `gorm:"size:64;not null;uniqueIndex:idx_employee_business_auth" json:"auth_uid"`
	BusinessID uuid.UUID         `gorm:"type:varchar(36);not null;uniqueIndex:idx_employee_business_auth;uniqueIndex:idx_employee_business_email" json:"business_id"`
	Name       string            `gorm:"size:255;not null" json:"name"`
	Email      string            `gorm:"size:255;not null;uniqueIndex:idx_employee_business_email" json:"email"`
	Role       enum.EmployeeRole `gorm:"size:50;not null" json:"role"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`

	Business Business `gorm:"foreignKey:BusinessID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new employee
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}
