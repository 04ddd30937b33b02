package middleware

import (
	"net/http"

	mgo "ChatWave/service/mgo"
	"ChatWave/tools/errs"

	"github.com/gin-gonic/gin"
)

// MongoGuard answers 503 while the database is still connecting. The mgo
// manager keeps retrying in the background, so the condition clears on its
// own; until then requests fail fast instead of panicking into Recovery.
func MongoGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !mgo.Ready() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				errs.ErrInternal.WithDetail("database not ready"))
			return
		}
		c.Next()
	}
}
