package request

import "github.com/sangkips/hotelpos-api/internal/domain/enum"

// CreateEmployeeRequest invites a user to the business
type CreateEmployeeRequest struct {
	Email string            `json:"email" binding:"required,email"`
	Name  string            `json:"name" binding:"required"`
	Role  enum.EmployeeRole `json:"role" binding:"required"`
}

// UpdateEmployeeRequest changes an employee's name and role
type UpdateEmployeeRequest struct {
	Name string            `json:"name" binding:"required"`
	Role enum.EmployeeRole `json:"role" binding:"required"`
}
