package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/walleta/backend/internal/httputil"
	"github.com/walleta/backend/internal/models"
)

const contextUser = "walleta-user"

var ErrMissingToken = fmt.Errorf("%w: missing or invalid Authorization header", models.ErrUnauthenticated)

// Middleware resolves the bearer token of the request and aborts with
// 401 if there is none or it is invalid.
func (p *Provider) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			httputil.ErrorHandler(c, ErrMissingToken)
			return
		}

		user, err := p.Resolve(c.Request.Context(), token)
		if err != nil {
			httputil.ErrorHandler(c, err)
			return
		}

		c.Set(contextUser, user)
		c.Next()
	}
}

// RequireSubscription aborts with 402 unless the authenticated user has an
// active subscription. It must run after Middleware.
func RequireSubscription(now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).HasActiveSubscription(now()) {
			httputil.ErrorHandler(c, models.ErrSubscriptionRequired)
			return
		}

		c.Next()
	}
}

// CurrentUser returns the user resolved by Middleware.
func CurrentUser(c *gin.Context) models.User {
	user, _ := c.MustGet(contextUser).(models.User)
	return user
}
