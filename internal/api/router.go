package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akylbek/payment-system/fraud-detector/internal/handlers"
	"github.com/akylbek/payment-system/fraud-detector/internal/middleware"
	"github.com/akylbek/payment-system/fraud-detector/internal/telemetry"
)

// Dependencies are the handler collaborators the router mounts.
type Dependencies struct {
	Auth       middleware.Authenticator
	Accounts   *handlers.AuthHandler
	Detections *handlers.DetectionHandler
}

func NewRouter(deps Dependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "fraud-detector"})
	})

	r.POST("/register", deps.Accounts.Register)
	r.POST("/login", deps.Accounts.Login)
	r.GET("/payment-methods", deps.Detections.PaymentMethods)

	authed := r.Group("/", deps.Auth.Authenticate())
	authed.POST("/logout", deps.Accounts.Logout)
	authed.GET("/me", deps.Accounts.Me)
	authed.POST("/detect", deps.Detections.Detect)
	authed.GET("/history", deps.Detections.History)

	return r
}
