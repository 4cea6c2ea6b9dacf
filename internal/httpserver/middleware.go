package httpserver

import (
	"net/http"
	"strings"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	viewerKey = "viewer"
	userKey   = "user"
)

// viewerMiddleware resolves the bearer token to a signed-in user or a guest session.
// Requests without a usable token continue as an anonymous customer.
func (h *handlers) viewerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		if u, err := h.deps.AccountSvc.LookupByToken(ctx, token); err == nil {
			c.Set(userKey, u)
			c.Set(viewerKey, domain.ViewerFromUser(*u))
			c.Next()
			return
		}
		if guestID, err := h.deps.GuestSvc.LookupByToken(ctx, token); err == nil {
			c.Set(viewerKey, domain.GuestViewer(guestID))
		}
		c.Next()
	}
}

func requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if viewerFrom(c).OwnerKey() == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("invalid_token", "a session token is required"))
			return
		}
		c.Next()
	}
}

func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userFrom(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("invalid_token", "sign in required"))
			return
		}
		c.Next()
	}
}

func requireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userFrom(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("invalid_token", "sign in required"))
			return
		}
		if viewerFrom(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody("forbidden", "insufficient role"))
			return
		}
		c.Next()
	}
}

func viewerFrom(c *gin.Context) domain.Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok := v.(domain.Viewer); ok {
			return viewer
		}
	}
	return domain.Viewer{Role: domain.RoleCustomer}
}

func userFrom(c *gin.Context) *domain.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
