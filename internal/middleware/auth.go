package middleware

import (
	"net/http"
	"strings"

	"lease-service/pkg/jwtutil"
	"lease-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token and extracts the operator's
// identity and location
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Store operator info in context for later use
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)

		if claims.LocationID != nil {
			c.Set("location_id", *claims.LocationID)
			log.Info("Request authenticated with location context",
				zap.Uint("user_id", claims.UserID),
				zap.Uint("location_id", *claims.LocationID))
		} else {
			log.Info("Request authenticated without location context",
				zap.Uint("user_id", claims.UserID))
		}

		// Token is valid, proceed with the request
		return next(c)
	}
}

// OperatorFromContext retrieves the authenticated user and location IDs
// from the context
func OperatorFromContext(c echo.Context) (userID uint, locationID uint) {
	if id, ok := c.Get("user_id").(uint); ok {
		userID = id
	}
	if id, ok := c.Get("location_id").(uint); ok {
		locationID = id
	}
	return userID, locationID
}
