package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cashtrackr/internal/middleware"
	"cashtrackr/internal/models"
	"cashtrackr/internal/service"
)

// BudgetHandler exposes budget CRUD. Every route except List/Create runs
// behind the ownership guard, so handlers work on the budget the guard
// already resolved and authorized.
type BudgetHandler struct {
	budgets *service.BudgetService
}

// NewBudgetHandler creates the budget handler.
func NewBudgetHandler(budgets *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

// List handles GET /api/budgets. Only the principal's own budgets are returned.
func (h *BudgetHandler) List(c *gin.Context) {
	principal := middleware.GetPrincipal(c)

	budgets, err := h.budgets.List(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}

	c.JSON(http.StatusOK, budgets)
}

// Create handles POST /api/budgets. The owner is taken from the
// authenticated principal, never from the body.
func (h *BudgetHandler) Create(c *gin.Context) {
	var req budgetRequest
	if !bindAndValidate(c, &req) {
		return
	}

	principal := middleware.GetPrincipal(c)
	budget, err := h.budgets.Create(c.Request.Context(), principal.ID, req.Name, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, budget)
}

// Get handles GET /api/budgets/:budgetId, returning the budget with its expenses.
func (h *BudgetHandler) Get(c *gin.Context) {
	budget, err := h.budgets.GetWithExpenses(c.Request.Context(), middleware.GetBudget(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, budget)
}

// Update handles PUT /api/budgets/:budgetId.
func (h *BudgetHandler) Update(c *gin.Context) {
	var req budgetRequest
	if !bindAndValidate(c, &req) {
		return
	}

	budget := middleware.GetBudget(c)
	budget.Name = req.Name
	budget.Amount = req.Amount

	if err := h.budgets.Update(c.Request.Context(), budget); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, budget)
}

// Delete handles DELETE /api/budgets/:budgetId. Expenses under the budget
// are deleted with it.
func (h *BudgetHandler) Delete(c *gin.Context) {
	if err := h.budgets.Delete(c.Request.Context(), middleware.GetBudget(c).ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "budget deleted"})
}
