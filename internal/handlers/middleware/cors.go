package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const allowedHeaders = "X-CSRF-Token, X-Requested-With, Accept, Accept-Version, " +
	"Content-Length, Content-MD5, Content-Type, Date, X-Api-Version"

// CORS sets the permissive headers the landing page frontends rely on and
// short-circuits preflight requests with an empty 200.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Credentials", "true")
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "GET,OPTIONS,PATCH,DELETE,POST,PUT")
		header.Set("Access-Control-Allow-Headers", allowedHeaders)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
