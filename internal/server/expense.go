package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cashtrackr/internal/middleware"
	"cashtrackr/internal/service"
)

// ExpenseHandler exposes expense CRUD nested under a budget. The
// ownership guard on the parent budget has already run for every route
// here; expenses never re-check ownership themselves.
type ExpenseHandler struct {
	expenses *service.ExpenseService
}

// NewExpenseHandler creates the expense handler.
func NewExpenseHandler(expenses *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// Create handles POST /api/budgets/:budgetId/expenses.
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req budgetRequest
	if !bindAndValidate(c, &req) {
		return
	}

	budget := middleware.GetBudget(c)
	expense, err := h.expenses.Create(c.Request.Context(), budget.ID, req.Name, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// Get handles GET /api/budgets/:budgetId/expenses/:expenseId.
func (h *ExpenseHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.GetExpense(c))
}

// Update handles PUT /api/budgets/:budgetId/expenses/:expenseId.
func (h *ExpenseHandler) Update(c *gin.Context) {
	var req budgetRequest
	if !bindAndValidate(c, &req) {
		return
	}

	expense := middleware.GetExpense(c)
	expense.Name = req.Name
	expense.Amount = req.Amount

	if err := h.expenses.Update(c.Request.Context(), expense); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// Delete handles DELETE /api/budgets/:budgetId/expenses/:expenseId.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	if err := h.expenses.Delete(c.Request.Context(), middleware.GetExpense(c).ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "expense deleted"})
}
