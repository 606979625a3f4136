// Package router wires services, handlers and middleware into the HTTP API.
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "fintrack/internal/docs" // registers the OpenAPI document
	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
)

// Options carries the settings the routes depend on.
type Options struct {
	JWTSecret          string
	JWTIssuer          string
	WebhookSecret      string
	CORSAllowedOrigins []string
}

// Services groups the service layer behind the handlers.
type Services struct {
	Transactions services.TransactionServicer
	Budgets      services.BudgetServicer
	Categories   services.CategoryServicer
	Analytics    services.AnalyticsServicer
	Audit        services.AuditServicer
}

// NewServices builds the service layer on db. Writes through the transaction
// and budget services invalidate the user's cached report.
func NewServices(db *gorm.DB, reports *services.ReportCache, opts services.AnalyticsOptions) Services {
	analyticsService := services.NewAnalyticsService(services.NewRecordSource(db), reports, opts)
	return Services{
		Transactions: services.NewTransactionService(db, analyticsService),
		Budgets:      services.NewBudgetService(db, analyticsService),
		Categories:   services.NewCategoryService(db),
		Analytics:    analyticsService,
		Audit:        services.NewAuditService(db),
	}
}

// New returns the configured gin engine.
func New(opts Options, svc Services) *gin.Engine {
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions, svc.Audit)
	budgetHandler := handlers.NewBudgetHandler(svc.Budgets, svc.Analytics, svc.Audit)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories)
	analyticsHandler := handlers.NewAnalyticsHandler(svc.Analytics)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(corsMiddleware(opts.CORSAllowedOrigins))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Change notifications from the record store.
	internal := router.Group("/internal")
	internal.Use(middleware.WebhookAuthMiddleware(opts.WebhookSecret))
	internal.POST("/records-changed", analyticsHandler.RecordsChanged)

	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(opts.JWTSecret, opts.JWTIssuer))

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/overview", budgetHandler.GetBudgetOverview)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	protected.GET("/categories", categoryHandler.GetCategories)

	protected.GET("/report", analyticsHandler.GetReport)
	protected.GET("/analytics", analyticsHandler.GetAnalytics)
	protected.GET("/predictions", analyticsHandler.GetPredictions)
	protected.GET("/dashboard", analyticsHandler.GetDashboard)

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}

	corsConfig.AllowAllOrigins = len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			corsConfig.AllowAllOrigins = true
		}
	}
	if !corsConfig.AllowAllOrigins {
		corsConfig.AllowOrigins = origins
	}
	return cors.New(corsConfig)
}
