package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/medvault/consent-api/internal/model"
	"github.com/medvault/consent-api/pkg/auth"
	"github.com/medvault/consent-api/pkg/httputil"
)

const ContextActorID = "actor_id"

// AuthMiddleware resolves the caller identity from a bearer token.
// Parsed tokens are cached briefly so hot callers skip signature
// verification on every request.
type AuthMiddleware struct {
	jwtSvc *auth.Service
	claims *cache.Cache
}

func NewAuthMiddleware(jwtSvc *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSvc: jwtSvc,
		claims: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			httputil.RespondWithStatus(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		if actor, ok := m.claims.Get(token); ok {
			c.Set(ContextActorID, actor.(model.ActorID))
			c.Next()
			return
		}

		actor, err := m.jwtSvc.ValidateToken(token)
		if err != nil {
			httputil.RespondWithStatus(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		m.claims.Set(token, actor, cache.DefaultExpiration)
		c.Set(ContextActorID, actor)
		c.Next()
	}
}

// ActorFrom returns the authenticated caller identity set by Authenticate.
func ActorFrom(c *gin.Context) model.ActorID {
	if v, ok := c.Get(ContextActorID); ok {
		if actor, ok := v.(model.ActorID); ok {
			return actor
		}
	}
	return ""
}
