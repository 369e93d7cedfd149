package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/middleware"
	"github.com/sangkips/hotelpos-api/pkg/apperror"
	"github.com/sangkips/hotelpos-api/pkg/utils"
)

// GetEmployee returns the requesting employee set by BusinessMiddleware
func GetEmployee(c *gin.Context) *entity.Employee {
	return middleware.GetEmployee(c)
}

// IsAdmin reports whether the requesting employee is an admin
func IsAdmin(c *gin.Context) bool {
	employee := GetEmployee(c)
	return employee != nil && employee.Role.IsAdmin()
}

// paramUUID parses a UUID path parameter
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

var dateTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04", "2006-01-02"}

// parseDateTime reads a POS timestamp. Values without a zone are in loc.
// An empty string yields nil.
func parseDateTime(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	return nil, apperror.NewBadRequestError("Invalid datetime '" + s + "'")
}

// parseDate reads a YYYY-MM-DD day in loc
func parseDate(field, s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, apperror.NewBadRequestError("Invalid " + field + ", expected YYYY-MM-DD")
	}
	return t, nil
}
