package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/wallie-app/backend/internal/models"
)

// getUserClaims returns the JWT claims set by the auth middleware, or nil
// when the request is unauthenticated
func getUserClaims(c echo.Context) *models.JwtCustomClaims {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

// getUserIDFromContext returns the authenticated user's ID, 0 when anonymous
func getUserIDFromContext(c echo.Context) uint {
	if claims := getUserClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}
