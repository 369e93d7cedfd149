package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// BusinessIDKey is the context key for the business ID
	BusinessIDKey ctxKey = "business_id"
	// EmployeeIDKey is the context key for the acting employee's ID
	EmployeeIDKey ctxKey = "employee_id"
)

// BusinessScope returns a GORM scope that filters by the business in ctx.
// Without a business in ctx the query matches nothing.
func BusinessScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return businessScopeOn(ctx, "business_id")
}

func businessScopeOn(ctx context.Context, column string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		businessID, ok := GetBusinessID(ctx)
		if !ok || businessID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where(column+" = ?", businessID)
	}
}

// WithBusiness adds the business ID to context
func WithBusiness(ctx context.Context, businessID uuid.UUID) context.Context {
	return context.WithValue(ctx, BusinessIDKey, businessID)
}

// GetBusinessID extracts the business ID from context
func GetBusinessID(ctx context.Context) (uuid.UUID, bool) {
	businessID, ok := ctx.Value(BusinessIDKey).(uuid.UUID)
	return businessID, ok
}

// WithEmployee adds the acting employee's ID to context
func WithEmployee(ctx context.Context, employeeID uuid.UUID) context.Context {
	return context.WithValue(ctx, EmployeeIDKey, employeeID)
}

// GetEmployeeID extracts the acting employee's ID from context
func GetEmployeeID(ctx context.Context) (uuid.UUID, bool) {
	employeeID, ok := ctx.Value(EmployeeIDKey).(uuid.UUID)
	return employeeID, ok
}

// containsPattern builds a case-insensitive LIKE pattern that works on
// both PostgreSQL and MySQL when matched against LOWER(column).
func containsPattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
