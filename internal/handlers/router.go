package handlers

import (
	"net/http"

	"upwatch/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter) *gin.Engine {
	r := gin.Default()

	// Unsupported verbs on known routes must answer 405, not 404
	r.HandleMethodNotAllowed = true

	// Middleware
	if rateLimiter != nil {
		r.Use(h.RateLimitMiddleware(rateLimiter))
	}

	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Accounts
	r.POST("/users", h.CreateAccount)
	r.GET("/users", h.GetAccount)
	r.PUT("/users", h.UpdateAccount)
	r.DELETE("/users", h.DeleteAccount)

	// Tokens
	r.POST("/tokens", h.CreateToken)
	r.GET("/tokens", h.GetToken)
	r.PUT("/tokens", h.ExtendToken)
	r.DELETE("/tokens", h.DeleteToken)

	// Checks
	r.POST("/checks", h.CreateCheck)
	r.GET("/checks", h.GetCheck)
	r.PUT("/checks", h.UpdateCheck)
	r.DELETE("/checks", h.DeleteCheck)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	return r
}
