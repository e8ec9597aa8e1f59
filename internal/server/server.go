// Package server wires the REST surface: routing, middleware ordering
// and the translation between HTTP and the service layer.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cashtrackr/internal/auth"
	"cashtrackr/internal/middleware"
	"cashtrackr/internal/service"
)

// Deps carries everything the router needs.
type Deps struct {
	Accounts   *service.AccountService
	Budgets    *service.BudgetService
	Expenses   *service.ExpenseService
	JWTManager *auth.JWTManager
	// AuthLimiter throttles the unauthenticated account endpoints.
	// nil disables rate limiting (tests).
	AuthLimiter *middleware.RateLimiter
}

// NewRouter builds the gin engine with all routes registered.
//
// Middleware order on protected resources: authentication gate first,
// then the budget ownership guard, then (for nested routes) expense
// resolution, then the handler.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := NewAuthHandler(deps.Accounts)
	budgetHandler := NewBudgetHandler(deps.Budgets)
	expenseHandler := NewExpenseHandler(deps.Expenses)

	requireAuth := middleware.RequireAuth(deps.JWTManager, deps.Accounts)
	resolveBudget := middleware.ResolveBudget(deps.Budgets)
	resolveExpense := middleware.ResolveExpense(deps.Expenses)

	authRoutes := router.Group("/api/auth")
	if deps.AuthLimiter != nil {
		authRoutes.Use(deps.AuthLimiter.Handler())
	}
	{
		authRoutes.POST("/create-account", authHandler.CreateAccount)
		authRoutes.POST("/confirm-account", authHandler.ConfirmAccount)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
		authRoutes.POST("/validate-token", authHandler.ValidateToken)
		authRoutes.POST("/reset-password/:token", authHandler.ResetPassword)

		authRoutes.GET("/user", requireAuth, authHandler.CurrentUser)
		authRoutes.POST("/update-password", requireAuth, authHandler.UpdatePassword)
		authRoutes.POST("/check-password", requireAuth, authHandler.CheckPassword)
	}

	budgets := router.Group("/api/budgets", requireAuth)
	{
		budgets.GET("", budgetHandler.List)
		budgets.POST("", budgetHandler.Create)

		scoped := budgets.Group("/:budgetId", resolveBudget)
		{
			scoped.GET("", budgetHandler.Get)
			scoped.PUT("", budgetHandler.Update)
			scoped.DELETE("", budgetHandler.Delete)

			scoped.POST("/expenses", expenseHandler.Create)

			expense := scoped.Group("/expenses/:expenseId", resolveExpense)
			{
				expense.GET("", expenseHandler.Get)
				expense.PUT("", expenseHandler.Update)
				expense.DELETE("", expenseHandler.Delete)
			}
		}
	}

	return router
}
