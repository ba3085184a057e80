package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sangkips/orderdesk-api/internal/config"
	domainRepo "github.com/sangkips/orderdesk-api/internal/domain/repository"
	"github.com/sangkips/orderdesk-api/internal/presentation/http/handler"
	"github.com/sangkips/orderdesk-api/internal/presentation/http/middleware"
	"github.com/sangkips/orderdesk-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Customer    *handler.CustomerHandler
	Interaction *handler.InteractionHandler
	Reminder    *handler.ReminderHandler
	CRM         *handler.CRMHandler
	Order       *handler.OrderHandler
	Product     *handler.ProductHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
	// Users re-checks every authenticated request against the users table when set
	Users           middleware.UserLookup
	Log             zerolog.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		if deps.RateLimiter != nil {
			public.Use(deps.RateLimiter.Middleware())
		}
		registerAuthRoutes(public, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.Users != nil {
			protected.Use(middleware.RequireActiveUser(deps.Users))
		}
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}
		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(rg *gin.RouterGroup, h *Handlers) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/profile", h.User.Profile)

	registerCRMRoutes(protected, h, deps)
	registerProductRoutes(protected, h)
	registerOrderRoutes(protected, h, deps)
	registerUserRoutes(protected, h)
}

func registerCRMRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	crmGroup := protected.Group("/crm")
	crmGroup.Use(middleware.RequireStaff())

	customers := crmGroup.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/export", h.Customer.Export)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", middleware.RequireAdmin(), h.Customer.Delete)

		customers.GET("/:id/interactions", h.Interaction.List)
		customers.POST("/:id/interactions",
			middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo, Log: deps.Log}),
			h.Interaction.Create,
		)
	}

	crmGroup.PUT("/interactions/:id/complete", h.Interaction.Complete)

	reminders := crmGroup.Group("/reminders")
	{
		reminders.GET("", h.Reminder.List)
		reminders.GET("/unread-count", h.Reminder.UnreadCount)
		reminders.PUT("/:id/read", h.Reminder.MarkRead)
	}

	crmGroup.POST("/recalculate-grades", middleware.RequireAdmin(), h.CRM.Recalculate)
	crmGroup.GET("/rules", h.CRM.Rules)
	crmGroup.GET("/dashboard", h.CRM.Dashboard)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", middleware.RequireAdmin(), h.Product.Create)
		products.PUT("/:id", middleware.RequireAdmin(), h.Product.Update)
		products.DELETE("/:id", middleware.RequireAdmin(), h.Product.Delete)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := protected.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.POST("",
			middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo, Log: deps.Log, Required: true}),
			h.Order.Create,
		)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.PUT("/:id/status", middleware.RequireAdmin(), h.Order.UpdateStatus)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	{
		users.PUT("/me", h.User.UpdateMe)
		users.POST("/change-password", h.User.ChangePassword)

		users.GET("", middleware.RequireAdmin(), h.User.List)
		users.PUT("/:id/role", middleware.RequireAdmin(), h.User.UpdateRole)
		users.PUT("/:id/status", middleware.RequireAdmin(), h.User.UpdateStatus)
	}
}
