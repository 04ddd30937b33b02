package security

import (
	"net/http"
	"strings"

	"ChatWave/global"
	"ChatWave/tools/errs"
	"ChatWave/tools/security"

	"github.com/gin-gonic/gin"
)

// Context keys downstream handlers read.
const (
	CtxUserIDKey = "authUserId"
	CtxTokenKey  = "authorization"
)

type Options struct {
	HeaderToken               string // default "authorization"
	EnableAuthorizationBearer bool   // default true
}

func DefaultOptions() *Options {
	return &Options{
		HeaderToken:               CtxTokenKey,
		EnableAuthorizationBearer: true,
	}
}

// Middleware validates the bearer token and stores the subject user ID in the
// gin context. Requests without a valid token are answered with a CodeError
// body and aborted.
func Middleware(opts *Options) gin.HandlerFunc {
	if opts == nil {
		opts = DefaultOptions()
	}
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(opts.HeaderToken))

		if token == "" && opts.EnableAuthorizationBearer {
			if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
				if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					token = strings.TrimSpace(authz[len("bearer "):])
				}
			}
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenExpired)
			return
		}

		userID, err := security.Verify(security.DefaultOptions(global.GetJwtSecret()), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenExpired.WithDetail(err.Error()))
			return
		}

		c.Set(CtxTokenKey, token)
		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}

// UserID reads the authenticated user from the context; empty when the route
// was registered without auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
