package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/wallie-app/backend/internal/models"
	"github.com/wallie-app/backend/internal/repositories"
)

// ProfileHandler handles HTTP requests for user profiles
type ProfileHandler struct {
	userRepository repositories.UserRepository
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(userRepo repositories.UserRepository) *ProfileHandler {
	return &ProfileHandler{userRepository: userRepo}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/me", h.GetProfile)                // Get own profile
	g.PUT("/me", h.UpdateProfile)             // Update own profile
	g.DELETE("/me", h.DeactivateProfile)      // Deactivate own account
	g.GET("/users/:username", h.GetPublicProfile) // Another user's public profile
}

// GetProfile retrieves the authenticated user's profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.ToProfileDetail())
}

// UpdateProfile updates the authenticated user's profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.About != "" {
		user.About = req.About
	}
	if req.ProfilePic != "" {
		user.ProfilePic = req.ProfilePic
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, user.ToProfileDetail())
}

// DeactivateProfile deactivates the authenticated user's account. Their
// posts and loves stay on the wall.
func (h *ProfileHandler) DeactivateProfile(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	if err := h.userRepository.DeactivateUser(user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPublicProfile retrieves another user's public profile by username
func (h *ProfileHandler) GetPublicProfile(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user.ToPublicProfile())
}

func (h *ProfileHandler) currentUser(c echo.Context) (*models.User, error) {
	user, err := h.userRepository.GetUserByID(getUserIDFromContext(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return user, nil
}
