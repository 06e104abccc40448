package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/miraihq/mirai-interview/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

type identityClaims struct {
	jwt.RegisteredClaims
}

// Identity resolves the caller's user id. When a bearer token is
// presented it must be a valid HS256 JWT signed with JWT_SECRET and
// the subject becomes the user id. Without a token the client-supplied
// user_id (form, query, or X-User-Id header) is trusted, which matches
// deployments that front this service with their own gateway auth.
func Identity() gin.HandlerFunc {
	secret := os.Getenv("JWT_SECRET")
	issuer := os.Getenv("JWT_ISSUER") // optional

	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if secret == "" {
				c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
					Code:    utils.CodeInternal,
					Message: "JWT_SECRET is not set",
				})
				return
			}

			claims := &identityClaims{}
			tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

			if err != nil || tok == nil || !tok.Valid || claims.Subject == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
					Code:    utils.CodeUnauthorized,
					Message: "invalid token",
				})
				return
			}
			if issuer != "" && claims.Issuer != issuer {
				c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
					Code:    utils.CodeUnauthorized,
					Message: "invalid token issuer",
				})
				return
			}

			c.Set("user_id", claims.Subject)
			c.Next()
			return
		}

		if uid := clientUserID(c); uid != "" {
			c.Set("user_id", uid)
		}
		c.Next()
	}
}

func clientUserID(c *gin.Context) string {
	if v := c.PostForm("user_id"); v != "" {
		return v
	}
	if v := c.Query("user_id"); v != "" {
		return v
	}
	return c.GetHeader("X-User-Id")
}
