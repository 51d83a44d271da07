package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wallie-app/backend/internal/mail"
	"github.com/wallie-app/backend/internal/models"
	"github.com/wallie-app/backend/internal/repositories"
)

const activationTokenLifetime = 72 * time.Hour

// activationClaims are the claims carried by an account activation link
type activationClaims struct {
	UserID  uint   `json:"user_id"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// AuthHandler handles registration, account activation and sign in
type AuthHandler struct {
	userRepository repositories.UserRepository
	mailer         mail.Mailer
	jwtSecret      string
	frontendURL    string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, mailer mail.Mailer, jwtSecret, frontendURL string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		mailer:         mailer,
		jwtSecret:      jwtSecret,
		frontendURL:    frontendURL,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.GET("/activate/:uid/:token", h.Activate)
	g.POST("/login", h.Login)
}

// Register creates a new inactive user and sends them an activation email
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Password1 != req.Password2 {
		return echo.NewHTTPError(http.StatusBadRequest, "The two passwords didn't match")
	}

	if _, err := h.userRepository.GetUserByUsername(req.Username); err == nil {
		return echo.NewHTTPError(http.StatusConflict,
			fmt.Sprintf("username - '%s' already exists", req.Username))
	}
	if _, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password1), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Username:   req.Username,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   string(hashedPassword),
		About:      req.About,
		ProfilePic: models.DefaultProfilePic,
		Active:     false,
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Registration succeeds even if the mail provider is down; the
	// activation link can be re-requested by registering support later.
	if err := h.sendActivationEmail(c, user); err != nil {
		log.Printf("Failed to send activation email to %s: %v", user.Email, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"profile": user.ToProfileDetail(),
		"msg":     "Please confirm your email address to complete registration",
	})
}

// Activate verifies an activation link, marks the account confirmed and
// redirects the browser to the frontend login page.
func (h *AuthHandler) Activate(c echo.Context) error {
	status := "failed"

	uid, err := strconv.ParseUint(c.Param("uid"), 10, 32)
	if err == nil {
		if claims, err := h.parseActivationToken(c.Param("token")); err == nil && claims.UserID == uint(uid) {
			if user, err := h.userRepository.GetUserByID(uint(uid)); err == nil {
				user.Active = true
				user.EmailConfirmed = true
				if err := h.userRepository.UpdateUser(user); err == nil {
					status = "success"
				}
			}
		}
	}

	return c.Redirect(http.StatusFound,
		fmt.Sprintf("%s/login?status=%s", h.frontendURL, status))
}

// Login authenticates a user and returns a JWT together with their profile
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}

	if !user.Active {
		return echo.NewHTTPError(http.StatusUnauthorized, "Please confirm your email address to sign in")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	// The profile rides along with the token so clients don't need a second
	// round trip after signing in.
	return c.JSON(http.StatusOK, echo.Map{
		"token":   token,
		"profile": user.ToProfileDetail(),
	})
}

func (h *AuthHandler) sendActivationEmail(c echo.Context, user *models.User) error {
	token, err := h.generateActivationToken(user)
	if err != nil {
		return err
	}
	scheme := "http"
	if c.Request().TLS != nil {
		scheme = "https"
	}
	activationURL := fmt.Sprintf("%s://%s/api/v1/auth/activate/%d/%s",
		scheme, c.Request().Host, user.ID, token)
	return h.mailer.SendActivationEmail(user, activationURL)
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)), // Token expires in 72 hours
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

// generateActivationToken mints a single-purpose token for the email
// confirmation link
func (h *AuthHandler) generateActivationToken(user *models.User) (string, error) {
	claims := &activationClaims{
		UserID:  user.ID,
		Purpose: "activation",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(activationTokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

func (h *AuthHandler) parseActivationToken(tokenString string) (*activationClaims, error) {
	claims := &activationClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Purpose != "activation" {
		return nil, errors.New("invalid activation token")
	}
	return claims, nil
}
