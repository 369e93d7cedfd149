package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sangkips/hotelpos-api/internal/application/service"
	"github.com/sangkips/hotelpos-api/internal/config"
	"github.com/sangkips/hotelpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/hotelpos-api/internal/domain/repository"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/handler"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/middleware"
	"github.com/sangkips/hotelpos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Invoice  *handler.InvoiceHandler
	Menu     *handler.MenuHandler
	Employee *handler.EmployeeHandler
	Settings *handler.SettingsHandler
	Report   *handler.ReportHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Verifier        *utils.TokenVerifier
	Cfg             *config.Config
	EmployeeRepo    domainRepo.EmployeeRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
	// Ping reports whether the database answers; nil skips the check.
	Ping func(ctx context.Context) error
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		service.RegisterValidators(v)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		status, code := "ok", 200
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				status, code = "database unavailable", 503
			}
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Verifier))
		protected.Use(middleware.BusinessMiddleware(deps.EmployeeRepo))

		rateLimiter := middleware.NewBusinessRateLimiter(middleware.RateLimiterConfig{
			Requests:        deps.Cfg.RateLimit.Requests,
			Window:          time.Duration(deps.Cfg.RateLimit.Duration) * time.Second,
			CleanupInterval: 5 * time.Minute,
			EntryTTL:        10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerInvoiceRoutes(protected, h, deps)
		registerMenuRoutes(protected, h)
		registerEmployeeRoutes(protected, h)
		registerSettingsRoutes(protected, h)
		registerReportRoutes(protected, h)
		registerPrinterRoutes(protected, h)
	}

	return router
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	invoices := protected.Group("/invoices")
	{
		invoices.POST("/quote", h.Invoice.Quote)
		invoices.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Invoice.Create)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/lookup", h.Invoice.Lookup)
		invoices.GET("/next-usin", h.Invoice.NextUSIN)
		invoices.GET("/booked-rooms", h.Invoice.BookedRooms)
		invoices.PUT("/:usin", h.Invoice.CreditUpdate)
		invoices.GET("/:usin/receipt.pdf", h.Printer.ReceiptPDF)
		invoices.POST("/:usin/print", h.Printer.PrintInvoice)
		invoices.DELETE("/:id", h.Invoice.Delete)
	}
}

func registerMenuRoutes(protected *gin.RouterGroup, h *Handlers) {
	menu := protected.Group("/menu")
	{
		menu.GET("", h.Menu.List)
		menu.POST("", h.Menu.Create)
		menu.GET("/categories", h.Menu.Categories)
		menu.POST("/import", h.Menu.Import)
		menu.GET("/:code", h.Menu.Get)
		menu.PUT("/:code", h.Menu.Update)
		menu.DELETE("/:code", h.Menu.Delete)
	}
}

func registerEmployeeRoutes(protected *gin.RouterGroup, h *Handlers) {
	employees := protected.Group("/employees")
	employees.Use(middleware.RequireRole(enum.RoleAdmin))
	{
		employees.GET("", h.Employee.List)
		employees.POST("", h.Employee.Create)
		employees.PUT("/:id", h.Employee.Update)
		employees.DELETE("/:id", h.Employee.Delete)
	}
}

func registerSettingsRoutes(protected *gin.RouterGroup, h *Handlers) {
	settings := protected.Group("/settings")
	{
		settings.GET("", h.Settings.GetSettings)
		settings.PUT("", middleware.RequireRole(enum.RoleAdmin), h.Settings.UpdateSettings)
		settings.POST("/logo", middleware.RequireRole(enum.RoleAdmin), h.Settings.UploadLogo)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	{
		reports.GET("/sales", h.Report.Sales)
		reports.GET("/sales.xlsx", h.Report.ExportSales)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}
