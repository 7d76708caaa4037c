package middlewares

import (
	"context"
	"strings"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"github.com/MdeMedina/saboresdelhogar/pkg/resp"
	"github.com/MdeMedina/saboresdelhogar/utils"
	"github.com/gin-gonic/gin"
)

// SessionResolver is the part of the auth service the middleware needs.
type SessionResolver interface {
	Authenticate(ctx context.Context, token string) (*entity.Session, bool, error)
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// OptionalAuth attaches the session when a valid bearer token is present
// and otherwise lets the request through as a guest.
func OptionalAuth(auth SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := bearer(c); tok != "" {
			sess, ok, err := auth.Authenticate(c.Request.Context(), tok)
			if err != nil {
				resp.FromError(c, err)
				c.Abort()
				return
			}
			if ok {
				utils.SetSession(c, sess)
			}
		}
		c.Next()
	}
}

// RequireAuth rejects requests without a live session. With roles given,
// the session user must hold one of them.
func RequireAuth(auth SessionResolver, roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearer(c)
		if tok == "" {
			resp.Unauthorized(c, "missing or invalid token")
			return
		}
		sess, ok, err := auth.Authenticate(c.Request.Context(), tok)
		if err != nil {
			resp.FromError(c, err)
			c.Abort()
			return
		}
		if !ok {
			resp.Unauthorized(c, "invalid or expired session")
			return
		}
		if len(roles) > 0 {
			allowed := false
			for _, r := range roles {
				if sess.User.Role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				resp.Forbidden(c, "forbidden")
				return
			}
		}
		utils.SetSession(c, sess)
		c.Next()
	}
}
