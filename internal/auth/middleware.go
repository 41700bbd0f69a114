package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/autotrackr/autotrackr/internal/models"
	"github.com/autotrackr/autotrackr/internal/store"
)

const userContextKey = "current_user"

// Guard resolves the Authorization bearer token to a user record and stores
// it in the request context. Invalid, expired and unknown-subject tokens all
// fail identically so the response never reveals which check failed.
func Guard(tokens *TokenService, users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortUnauthenticated(c)
			return
		}

		subject, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		user, err := users.FindByUsername(c.Request.Context(), subject)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":   "unauthenticated",
		"detail": "could not validate credentials",
	})
}

// CurrentUser returns the user resolved by Guard. Only valid on routes
// behind the middleware.
func CurrentUser(c *gin.Context) *models.User {
	user, _ := c.MustGet(userContextKey).(*models.User)
	return user
}
