package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/fraud-detector/internal/interfaces"
	"github.com/akylbek/payment-system/fraud-detector/internal/middleware"
	"github.com/akylbek/payment-system/fraud-detector/internal/models"
	"github.com/akylbek/payment-system/fraud-detector/internal/service"
	"github.com/akylbek/payment-system/fraud-detector/internal/telemetry"
)

type registerRequest struct {
	Username string `form:"username" json:"username" binding:"required,min=3,max=64"`
	Email    string `form:"email" json:"email" binding:"required,email,max=120"`
	Password string `form:"password" json:"password" binding:"required,min=8,max=72"`
}

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// CookieOptions controls the session cookie written on login.
type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	accounts *service.AccountService
	sessions interfaces.SessionStore
	auth     middleware.Authenticator
	cookie   CookieOptions
}

func NewAuthHandler(
	accounts *service.AccountService,
	sessions interfaces.SessionStore,
	auth middleware.Authenticator,
	cookie CookieOptions,
) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
		auth:     auth,
		cookie:   cookie,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration details"})
		return
	}

	account, err := h.accounts.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, models.ErrDuplicateUsername):
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	case errors.Is(err, models.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		return
	case err != nil:
		telemetry.Logger.Error("Error registering account", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful! Please log in.",
		"account": account.Identity(),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	ctx := c.Request.Context()
	account, err := h.accounts.Authenticate(ctx, req.Username, req.Password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}
	if err != nil {
		telemetry.Logger.Error("Error authenticating account", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	token, err := h.sessions.Create(ctx, account.ID, h.cookie.TTL)
	if err != nil {
		telemetry.Logger.Error("Error creating session",
			zap.Int64("account_id", account.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"account": account.Identity(),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if token := h.auth.CurrentToken(c); token != "" {
		if err := h.sessions.Delete(c.Request.Context(), token); err != nil {
			telemetry.Logger.Error("Error deleting session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
			return
		}
	}

	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := h.auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	c.JSON(http.StatusOK, identity)
}
