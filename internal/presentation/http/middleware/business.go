package middleware

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/domain/enum"
	"github.com/sangkips/hotelpos-api/internal/domain/repository"
	infraRepo "github.com/sangkips/hotelpos-api/internal/infrastructure/repository"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/dto/response"
)

const (
	// BusinessHeader selects the business a request acts on
	BusinessHeader = "X-Business-Id"

	AuthUIDKey    = "auth_uid"
	AuthEmailKey  = "auth_email"
	BusinessIDKey = "business_id"
	EmployeeKey   = "employee"
)

// BusinessMiddleware resolves the requesting employee of the business named
// by the X-Business-Id header. Every query below it is scoped to that
// business through the request context.
func BusinessMiddleware(employeeRepo repository.EmployeeRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(BusinessHeader)
		if raw == "" {
			response.BadRequest(c, BusinessHeader+" header is required")
			c.Abort()
			return
		}
		businessID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid "+BusinessHeader+" header")
			c.Abort()
			return
		}

		authUID := c.GetString(AuthUIDKey)
		if authUID == "" {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}

		employee, err := employeeRepo.GetByAuthUID(c.Request.Context(), businessID, authUID)
		if err != nil {
			log.Printf("Error resolving employee for business %s: %v", businessID, err)
			response.InternalServerError(c, "Failed to resolve employee")
			c.Abort()
			return
		}
		if employee == nil {
			response.Forbidden(c, "You are not an employee of this business")
			c.Abort()
			return
		}

		c.Set(BusinessIDKey, businessID)
		c.Set(EmployeeKey, employee)

		ctx := infraRepo.WithBusiness(c.Request.Context(), businessID)
		ctx = infraRepo.WithEmployee(ctx, employee.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole allows the request through only for the given roles
func RequireRole(roles ...enum.EmployeeRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		employee := GetEmployee(c)
		if employee == nil {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, role := range roles {
			if employee.Role == role {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Forbidden (admin only)")
		c.Abort()
	}
}

// GetEmployee returns the requesting employee, or nil outside a business route
func GetEmployee(c *gin.Context) *entity.Employee {
	value, exists := c.Get(EmployeeKey)
	if !exists {
		return nil
	}
	employee, _ := value.(*entity.Employee)
	return employee
}

// GetBusinessID returns the business the request acts on
func GetBusinessID(c *gin.Context) uuid.UUID {
	value, exists := c.Get(BusinessIDKey)
	if !exists {
		return uuid.Nil
	}
	businessID, _ := value.(uuid.UUID)
	return businessID
}
