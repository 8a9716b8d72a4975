package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/docbid-api/internal/models"
	"github.com/harentsoaR/docbid-api/internal/utils"
)

const userKey = "currentUser"

type TokenValidator interface {
	Validate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware resolves the authorization header to a user and stores it
// in the context for handlers to use.
func AuthMiddleware(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.TokenFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			utils.WriteError(c, http.StatusUnauthorized, utils.CodeInvalidToken, "Authorization header required")
			return
		}

		user, err := v.Validate(c.Request.Context(), token)
		if err != nil {
			log.Printf("[%s] auth rejected: %v", RequestID(c), err)
			utils.WriteError(c, http.StatusUnauthorized, utils.CodeInvalidToken, "Invalid token")
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
