package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cashtrackr/internal/models"
	"cashtrackr/internal/service"
)

// GetBudget extracts the budget resolved by ResolveBudget from the context.
func GetBudget(c *gin.Context) *models.Budget {
	budget, _ := c.Get(budgetKey)
	return budget.(*models.Budget)
}

// GetExpense extracts the expense resolved by ResolveExpense from the context.
func GetExpense(c *gin.Context) *models.Expense {
	expense, _ := c.Get(expenseKey)
	return expense.(*models.Expense)
}

// ResolveBudget is the ownership guard for every /api/budgets/:budgetId
// route. It loads the budget from the path, answers 404 when it does not
// exist and 403 when the authenticated principal does not own it. On
// success the budget is attached to the context for the handler.
//
// This is the single place ownership is enforced: nested expense routes
// inherit the decision made here.
func ResolveBudget(budgets *service.BudgetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("budgetId")
		if uuid.Validate(id) != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"errors": gin.H{"budgetId": "must be a valid budget ID"},
			})
			return
		}

		budget, err := budgets.Get(c.Request.Context(), id)
		if err == service.ErrBudgetNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		if err := service.CheckBudgetAccess(GetPrincipal(c), budget); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}

		c.Set(budgetKey, budget)
		c.Next()
	}
}

// ResolveExpense loads the expense named by :expenseId and checks that it
// belongs to the already-resolved budget. It runs after ResolveBudget and
// performs no ownership check of its own.
func ResolveExpense(expenses *service.ExpenseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("expenseId")
		if uuid.Validate(id) != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"errors": gin.H{"expenseId": "must be a valid expense ID"},
			})
			return
		}

		expense, err := expenses.Get(c.Request.Context(), id)
		if err == service.ErrExpenseNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		// An expense reached through the wrong budget path is, from the
		// caller's perspective, a missing expense.
		if expense.BudgetID != GetBudget(c).ID {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": service.ErrExpenseNotFound.Error()})
			return
		}

		c.Set(expenseKey, expense)
		c.Next()
	}
}
