package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/hotelpos-api/internal/application/service"
	"github.com/sangkips/hotelpos-api/internal/domain/repository"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotelpos-api/pkg/pagination"
)

// MenuHandler handles menu-related HTTP requests
type MenuHandler struct {
	menuService   *service.MenuService
	uploadMaxSize int64
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *service.MenuService, uploadMaxSize int64) *MenuHandler {
	return &MenuHandler{menuService: menuService, uploadMaxSize: uploadMaxSize}
}

// List lists menu items
func (h *MenuHandler) List(c *gin.Context) {
	var filter request.MenuFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.menuService.List(c.Request.Context(), &repository.MenuFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:   filter.Search,
		Category: filter.Category,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Menu retrieved successfully", result)
}

// Get retrieves one menu item by code
func (h *MenuHandler) Get(c *gin.Context) {
	item, err := h.menuService.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu item retrieved successfully", item)
}

// Categories lists the categories in use
func (h *MenuHandler) Categories(c *gin.Context) {
	categories, err := h.menuService.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Categories retrieved successfully", categories)
}

// Create adds a menu item
func (h *MenuHandler) Create(c *gin.Context) {
	var req request.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	item, err := h.menuService.Create(c.Request.Context(), menuItemInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Menu item created successfully", item)
}

// Update changes the menu item with the code in the path
func (h *MenuHandler) Update(c *gin.Context) {
	var req request.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	item, err := h.menuService.Update(c.Request.Context(), c.Param("code"), menuItemInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu item updated successfully", item)
}

// Delete removes the menu item with the code in the path
func (h *MenuHandler) Delete(c *gin.Context) {
	if err := h.menuService.Delete(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu item deleted successfully", nil)
}

// Import creates menu items from an uploaded .xlsx workbook (form field "file")
func (h *MenuHandler) Import(c *gin.Context) {
	data, ok := readUpload(c, "file", h.uploadMaxSize)
	if !ok {
		return
	}

	result, err := h.menuService.Import(c.Request.Context(), data)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu import completed", result)
}

func menuItemInput(req *request.MenuItemRequest) *service.MenuItemInput {
	return &service.MenuItemInput{
		ItemCode:     req.ItemCode,
		ItemName:     req.ItemName,
		ItemCategory: req.ItemCategory,
		ItemPrice:    req.ItemPrice,
		StockQty:     req.StockQty,
	}
}

// readUpload reads a multipart file field, answering the request itself
// when the file is missing or too large.
func readUpload(c *gin.Context, field string, maxSize int64) ([]byte, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		response.BadRequest(c, "File is required in form field '"+field+"'")
		return nil, false
	}
	if maxSize > 0 && fileHeader.Size > maxSize {
		response.BadRequest(c, "File is too large")
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Could not open uploaded file")
		return nil, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "Could not read uploaded file")
		return nil, false
	}
	return data, true
}
