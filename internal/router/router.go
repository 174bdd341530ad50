// Package router builds the HTTP surface of the API. Keeping the wiring in
// one place guarantees the server and the tests run the exact same routes,
// middleware chain, and validator registrations.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"prodledger/internal/handlers"
	"prodledger/internal/middleware"
	"prodledger/internal/validator"
)

// Handlers collects the resource handlers mounted by New.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Project     *handlers.ProjectHandler
	Budget      *handlers.BudgetHandler
	Transaction *handlers.TransactionHandler
	Stakeholder *handlers.StakeholderHandler
	Summary     *handlers.SummaryHandler
	BankAccount *handlers.BankAccountHandler
	Feed        *handlers.FeedHandler
}

// New constructs the Gin engine with all application routes mounted.
// Custom binding validators are registered before any route so that DTO
// binding never hits an undefined validation tag. Extra middleware (request
// logging, CORS) runs after recovery and before error rendering.
func New(h Handlers, feedAPIKey string, extra ...gin.HandlerFunc) *gin.Engine {
	validator.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	for _, m := range extra {
		router.Use(m)
	}
	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Bank feed routes (API key auth, no user session)
	feed := v1.Group("/feed")
	feed.Use(middleware.FeedAuthMiddleware(feedAPIKey))
	feed.POST("/transactions", h.Feed.ImportTransaction)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile and admin user management
	protected.GET("/profile", h.Auth.GetProfile)
	protected.POST("/users", h.Auth.CreateUser)

	// Project routes
	projects := protected.Group("/projects")
	projects.POST("", h.Project.CreateProject)
	projects.GET("", h.Project.GetProjects)
	projects.GET("/:id", h.Project.GetProject)
	projects.POST("/:id/budget-lines", h.Project.CreateBudgetLine)
	projects.GET("/:id/budget-lines", h.Project.GetBudgetLines)
	projects.POST("/:id/shooting-days", h.Project.CreateShootingDay)
	projects.GET("/:id/shooting-days", h.Project.GetShootingDays)

	// Budget lifecycle routes
	projects.POST("/:id/budget/submit", h.Budget.SubmitBudget)
	projects.POST("/:id/budget/approve", h.Budget.ApproveBudget)
	projects.POST("/:id/budget/reject", h.Budget.RejectBudget)
	projects.POST("/:id/budget/increment", h.Budget.RequestIncrement)

	// Producer-facing expense creation (budget gated)
	projects.POST("/:id/expenses", h.Transaction.CreateExpense)

	// Aggregation routes
	projects.GET("/:id/summary/categories", h.Summary.GetCategorySummaries)
	projects.GET("/:id/summary/totals", h.Summary.GetProjectTotals)

	// Stakeholder routes
	projects.POST("/:id/stakeholders", h.Stakeholder.CreateStakeholder)
	projects.GET("/:id/stakeholders", h.Stakeholder.GetProjectStakeholders)

	stakeholders := protected.Group("/stakeholders")
	stakeholders.GET("/:id", h.Stakeholder.GetStakeholder)
	stakeholders.POST("/:id/confirm-booking", h.Stakeholder.ConfirmBooking)
	stakeholders.GET("/:id/rate-calculation", h.Stakeholder.GetRateCalculation)

	// Transaction routes (back office, no budget gating on create)
	transactions := protected.Group("/transactions")
	transactions.POST("", h.Transaction.RecordTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.POST("/:id/approve", h.Transaction.ApproveTransaction)
	transactions.POST("/:id/reject", h.Transaction.RejectTransaction)
	transactions.POST("/:id/paid", h.Transaction.MarkTransactionPaid)

	// Bank account routes
	bankAccounts := protected.Group("/bank-accounts")
	bankAccounts.POST("", h.BankAccount.CreateBankAccount)
	bankAccounts.GET("", h.BankAccount.GetBankAccounts)
	bankAccounts.GET("/:id", h.BankAccount.GetBankAccount)

	return router
}
