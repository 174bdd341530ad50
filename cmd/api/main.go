package main

import (
	"fmt"
	"net/http"
	"os"
	"prodledger/internal/config"
	"prodledger/internal/database"
	"prodledger/internal/handlers"
	"prodledger/internal/logger"
	"prodledger/internal/middleware"
	"prodledger/internal/router"
	"prodledger/internal/services"

	"github.com/gin-gonic/gin"
)

// @title           ProdLedger API
// @version         1.0
// @description     ProdLedger tracks production budgets, expense approvals, stakeholder rates, and bank balances for film and video projects.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	projectService := services.NewProjectService(db)
	budgetService := services.NewBudgetService(db)
	transactionService := services.NewTransactionService(db)
	stakeholderService := services.NewStakeholderService(db)
	summaryService := services.NewSummaryService(db)
	bankAccountService := services.NewBankAccountService(db)

	// Initialize handlers and mount routes
	engine := router.New(router.Handlers{
		Auth:        handlers.NewAuthHandler(userService, auditService),
		Project:     handlers.NewProjectHandler(projectService, auditService),
		Budget:      handlers.NewBudgetHandler(budgetService, auditService),
		Transaction: handlers.NewTransactionHandler(transactionService, auditService),
		Stakeholder: handlers.NewStakeholderHandler(stakeholderService, auditService),
		Summary:     handlers.NewSummaryHandler(summaryService),
		BankAccount: handlers.NewBankAccountHandler(bankAccountService, auditService),
		Feed:        handlers.NewFeedHandler(transactionService),
	}, appConfig.FeedAPIKey, middleware.RequestLogging(), corsMiddleware())

	log.Infof("Starting ProdLedger backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return engine.Run(":" + appConfig.Port)
}

// corsMiddleware allows cross-origin requests from browser clients.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
