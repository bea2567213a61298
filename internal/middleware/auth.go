package middleware

import (
	"net/http"
	"strings"

	"github.com/alex-clyr/clyr-gpts/pkg/jwtutil"
	"github.com/alex-clyr/clyr-gpts/pkg/logger"
	"github.com/alex-clyr/clyr-gpts/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// JWTAuthMiddleware creates a middleware that validates JWT tokens
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			// Extract the token from the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing authorization header"})
			}

			// Check if the header format is valid
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid authorization header format"})
			}

			tokenString := parts[1]

			// Validate the token
			claims, err := jwtUtil.ValidateToken(tokenString)
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
			}

			// Store the claims in the context for later use
			c.Set("user", claims)
			log.Debug("JWT token validated successfully",
				zap.String("user_id", claims.UserID),
				zap.String("email", claims.Email))

			return next(c)
		}
	}
}

// UserClaims returns the authenticated user's claims from the Echo context.
func UserClaims(c echo.Context) *jwtutil.UserClaims {
	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	if !ok {
		return nil
	}
	return claims
}

// RequireAdmin gates a route group to users carrying the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := UserClaims(c)
		if claims == nil || claims.Role != "admin" {
			logger.FromEcho(c).Warn("Admin access denied")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Admin access required"})
		}
		return next(c)
	}
}
