package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// authMiddleware guards the mutating endpoints with an HS256 bearer token.
// An empty secret disables auth, which is only sensible for local dev.
func (m ApiHandler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.JwtSecret == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			returnErrorJsonCode(fmt.Errorf("missing bearer token"), c, 401)
			return
		}

		claims, err := parseApiJWT(strings.TrimPrefix(header, "Bearer "), m.JwtSecret)
		if err != nil {
			returnErrorJsonCode(fmt.Errorf("invalid token: %w", err), c, 401)
			return
		}

		c.Set("subject", claims.Subject)
		c.Next()
	}
}

type apiJWT struct {
	Subject   string `json:"sub"`
	ExpiresAt int64  `json:"exp"`
}

func parseApiJWT(jwtStr string, decodeToken string) (*apiJWT, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(decodeToken), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse claims")
	}

	parsed := apiJWT{}
	if sub, ok := claims["sub"].(string); ok {
		parsed.Subject = sub
	}
	if exp, ok := claims["exp"].(float64); ok {
		parsed.ExpiresAt = int64(exp)
	}

	if parsed.ExpiresAt != 0 && time.Now().UTC().Unix() > parsed.ExpiresAt {
		return nil, fmt.Errorf("jwt is expired")
	}

	return &parsed, nil
}
