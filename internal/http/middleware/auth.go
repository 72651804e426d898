package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const SubjectKey = "subject"

// TokenParser verifies a bearer token and returns its subject
type TokenParser interface {
	ParseJWT(token string) (string, error)
}

// JWT requires "Authorization: Bearer <token>" and stores the token subject under SubjectKey
func JWT(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "Missing bearer token")
			return
		}

		subject, err := parser.ParseJWT(strings.TrimSpace(token))
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(SubjectKey, subject)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  http.StatusUnauthorized,
		"message": msg,
	})
}
