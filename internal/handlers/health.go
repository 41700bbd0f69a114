package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/autotrackr/autotrackr/internal/store"
)

// Status is the unauthenticated GET / endpoint the frontend pings.
func Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "AutoTracker app is running!"})
}

// Health reports whether the persistent store is reachable.
func Health(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"code":   "unavailable",
				"detail": "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
