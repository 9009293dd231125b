package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/fraud-detector/internal/interfaces"
	"github.com/akylbek/payment-system/fraud-detector/internal/models"
	"github.com/akylbek/payment-system/fraud-detector/internal/telemetry"
)

const (
	SessionCookieName = "session_token"

	contextKeyIdentity = "identity"
	contextKeyToken    = "session_token"
)

// Authenticator gates routes and exposes the caller to handlers.
type Authenticator interface {
	Authenticate() gin.HandlerFunc
	CurrentIdentity(c *gin.Context) (models.Identity, bool)
	CurrentToken(c *gin.Context) string
}

type accountLookup interface {
	AccountByID(ctx context.Context, id int64) (models.Account, error)
}

// SessionAuth resolves session tokens against the session store and accounts.
type SessionAuth struct {
	sessions     interfaces.SessionStore
	accounts     accountLookup
	secureCookie bool
}

// NewSessionAuth builds the middleware. secureCookie must match the Secure
// attribute the login handler writes, so cleared cookies replace it.
func NewSessionAuth(sessions interfaces.SessionStore, accounts accountLookup, secureCookie bool) *SessionAuth {
	return &SessionAuth{sessions: sessions, accounts: accounts, secureCookie: secureCookie}
}

func (a *SessionAuth) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}

		ctx := c.Request.Context()
		accountID, err := a.sessions.Resolve(ctx, token)
		if errors.Is(err, models.ErrSessionNotFound) {
			c.SetCookie(SessionCookieName, "", -1, "/", "", a.secureCookie, true)
			abortUnauthorized(c, "Invalid or expired session")
			return
		}
		if err != nil {
			telemetry.Logger.Error("Session lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify session"})
			return
		}

		account, err := a.accounts.AccountByID(ctx, accountID)
		if errors.Is(err, models.ErrAccountNotFound) {
			abortUnauthorized(c, "Session account no longer exists")
			return
		}
		if err != nil {
			telemetry.Logger.Error("Account lookup failed",
				zap.Int64("account_id", accountID),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify session"})
			return
		}

		c.Set(contextKeyIdentity, account.Identity())
		c.Set(contextKeyToken, token)
		c.Next()
	}
}

func (a *SessionAuth) CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(contextKeyIdentity)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

func (a *SessionAuth) CurrentToken(c *gin.Context) string {
	return c.GetString(contextKeyToken)
}

// tokenFromRequest prefers the session cookie and falls back to a Bearer header.
func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
