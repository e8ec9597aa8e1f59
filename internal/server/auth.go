package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cashtrackr/internal/auth"
	"cashtrackr/internal/middleware"
	"cashtrackr/internal/service"
)

// AuthHandler exposes the account lifecycle over REST.
type AuthHandler struct {
	accounts *service.AccountService
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// CreateAccount handles POST /api/auth/create-account.
func (h *AuthHandler) CreateAccount(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ConfirmAccount handles POST /api/auth/confirm-account.
func (h *AuthHandler) ConfirmAccount(c *gin.Context) {
	var req tokenRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.accounts.Confirm(c.Request.Context(), req.Token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account confirmed"})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	token, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.accounts.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "check your email for recovery instructions"})
}

// ValidateToken handles POST /api/auth/validate-token.
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	var req tokenRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.accounts.ValidateToken(c.Request.Context(), req.Token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token is valid"})
}

// ResetPassword handles POST /api/auth/reset-password/:token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.Param("token")
	if len(token) != auth.ActionTokenLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": gin.H{"token": "must be exactly 6 characters"},
		})
		return
	}

	var req resetPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.accounts.ResetPassword(c.Request.Context(), token, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// CurrentUser handles GET /api/auth/user.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.GetPrincipal(c))
}

// UpdatePassword handles POST /api/auth/update-password.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	principal := middleware.GetPrincipal(c)
	if err := h.accounts.ChangePassword(c.Request.Context(), principal.ID, req.CurrentPassword, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// CheckPassword handles POST /api/auth/check-password.
func (h *AuthHandler) CheckPassword(c *gin.Context) {
	var req checkPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	principal := middleware.GetPrincipal(c)
	if err := h.accounts.CheckPassword(c.Request.Context(), principal.ID, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password is correct"})
}
