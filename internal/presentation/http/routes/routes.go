package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/phoneshop-pos/internal/config"
	"github.com/sangkips/phoneshop-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/handler"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/middleware"
	"github.com/sangkips/phoneshop-pos/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Profile  *handler.ProfileHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Sale     *handler.SaleHandler
	Loss     *handler.LossHandler
	Report   *handler.ReportHandler
	Receipt  *handler.ReceiptHandler
	Realtime *handler.RealtimeHandler
	User     *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
}

// NewRateLimiter builds the per-user limiter from RATE_LIMIT_REQUESTS per
// RATE_LIMIT_DURATION seconds
func NewRateLimiter(cfg *config.RateLimitConfig) *middleware.RateLimiter {
	return middleware.NewRateLimiter(middleware.RateLimiterConfigFor(
		cfg.Requests,
		time.Duration(cfg.Duration)*time.Second,
	))
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = NewRateLimiter(&deps.Cfg.RateLimit)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"service":      deps.Cfg.App.Name,
			"rate_limiter": limiter.Stats(),
		})
	})

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		public.Use(middleware.OptionalAuthMiddleware(deps.JWTManager))
		public.Use(limiter.Middleware())
		registerAuthRoutes(public, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(limiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	adminOnly := middleware.RequireRole(enum.RoleAdmin)

	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/auth/me", h.Auth.Me)
	protected.PUT("/auth/password", h.Auth.ChangePassword)

	protected.GET("/profile", h.Profile.Get)
	protected.PUT("/profile", h.Profile.Update)

	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.LowStock)
		products.GET("/categories", h.Product.Categories)
		products.POST("/import", adminOnly, h.Product.Import)
		products.GET("/:id", h.Product.Get)
		products.POST("", h.Product.Create)
		products.PUT("/:id", h.Product.Update)
		products.PATCH("/:id/stock", h.Product.UpdateStock)
		products.DELETE("/:id", adminOnly, h.Product.Delete)
	}

	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
		customers.POST("", h.Customer.Create)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", adminOnly, h.Customer.Delete)
		customers.GET("/:id/loans", h.Customer.LoanHistory)
		customers.POST("/:id/loans", h.Customer.AddLoan)
		customers.POST("/:id/payments", h.Customer.PayLoan)
		customers.POST("/:id/points", h.Customer.AddPoints)
	}

	cart := protected.Group("/cart")
	{
		cart.GET("", h.Sale.Cart)
		cart.DELETE("", h.Sale.ClearCart)
		cart.POST("/items", h.Sale.AddItem)
		cart.DELETE("/items/:productId", h.Sale.RemoveItem)
		cart.PUT("/items/:productId/discount", h.Sale.SetDiscount)
		cart.PUT("/items/:productId/loan", h.Sale.SetLoan)
		cart.POST("/checkout", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Sale.Checkout)
	}

	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
		sales.PATCH("/:id", h.Sale.UpdateDetails)
		sales.GET("/:id/receipt", h.Receipt.Get)
	}

	losses := protected.Group("/losses")
	{
		losses.GET("", h.Loss.List)
		losses.GET("/:id", h.Loss.Get)
		losses.POST("", h.Loss.Create)
		losses.PUT("/:id", adminOnly, h.Loss.Update)
		losses.DELETE("/:id", adminOnly, h.Loss.Delete)
	}

	protected.GET("/reports", h.Report.Get)
	protected.GET("/reports/export", h.Report.Export)

	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Receipt.PrinterStatus)
		printer.POST("/test", h.Receipt.TestPrint)
		printer.POST("/print", h.Receipt.Print)
	}

	protected.GET("/realtime", h.Realtime.Stream)

	users := protected.Group("/users", adminOnly)
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/role", h.User.UpdateRole)
		users.DELETE("/:id", h.User.Delete)
	}
}
