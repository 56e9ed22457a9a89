package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/campus-content-api/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
)

// adminAuthMiddleware guards admin routes. It validates the bearer
// token issued by the external auth service and requires an admin
// role claim. This service never issues tokens itself.
func adminAuthMiddleware(cfg *config.Config, log zerolog.Logger) gin.HandlerFunc {
	authLog := log.With().Str("middleware", "admin_auth").Logger()

	return func(c *gin.Context) {
		claims, err := parseToken(c.GetHeader("Authorization"), cfg.Auth.JWTSecret)
		if err != nil {
			authLog.Debug().Err(err).Msg("Token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		role, _ := claims["role"].(string)
		if role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden - admin access required"})
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set("adminId", sub)
		}
		c.Next()
	}
}

func parseToken(header, secret string) (jwt.MapClaims, error) {
	if header == "" {
		return nil, fmt.Errorf("missing authorization header")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
