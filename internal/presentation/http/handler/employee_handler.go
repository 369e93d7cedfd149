package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/hotelpos-api/internal/application/service"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/dto/response"
)

// EmployeeHandler handles employee-related HTTP requests
type EmployeeHandler struct {
	employeeService *service.EmployeeService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// List lists the business's employees
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.employeeService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Employees retrieved successfully", employees)
}

// Create invites or links an auth user as an employee
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req request.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), &service.CreateEmployeeInput{
		Email: req.Email,
		Name:  req.Name,
		Role:  req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Employee created successfully", employee)
}

// Update changes an employee's name and role
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid employee ID")
		return
	}

	var req request.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), id, &service.UpdateEmployeeInput{
		Name: req.Name,
		Role: req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Employee updated successfully", employee)
}

// Delete removes an employee and their auth user
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid employee ID")
		return
	}

	result, err := h.employeeService.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Warning != "" {
		response.OK(c, result.Warning, result)
		return
	}
	response.OK(c, "Employee deleted successfully", nil)
}
