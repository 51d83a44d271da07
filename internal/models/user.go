package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultProfilePic is used when a user has not uploaded their own picture.
const DefaultProfilePic = "http://res.cloudinary.com/andela-troupon/image/upload/v1491232845/default_profile_normal_n8yvkf.png"

// User represents a registered user and their wall profile
type User struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Username       string `json:"username" gorm:"uniqueIndex;size:15"`
	FirstName      string `json:"first_name" gorm:"size:50"`
	LastName       string `json:"last_name" gorm:"size:50"`
	Email          string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Password       string `json:"-"`                        // Store hashed password, ignore for JSON serialization
	About          string `json:"about" gorm:"size:250"`
	ProfilePic     string `json:"profile_pic"`
	EmailConfirmed bool   `json:"email_confirmed"`
	Active         bool   `json:"-"` // Users stay inactive until they confirm their email

	CreatedAt time.Time `json:"date_created"`
	UpdatedAt time.Time `json:"date_modified"`
}

// RegisterRequest defines the request body for user registration
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=5,max=15"`
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password1 string `json:"password1" validate:"required,min=8"`
	Password2 string `json:"password2" validate:"required"`
	About     string `json:"about" validate:"max=250"`
}

// LoginRequest defines the request body for local sign in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for updating the authenticated profile
type UpdateProfileRequest struct {
	FirstName  string `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName   string `json:"last_name,omitempty" validate:"omitempty,max=50"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	About      string `json:"about,omitempty" validate:"omitempty,max=250"`
	ProfilePic string `json:"profile_pic,omitempty" validate:"omitempty,url"`
}

// PublicProfile is the representation of a user shown to other users
type PublicProfile struct {
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	About      string `json:"about"`
	ProfilePic string `json:"profile_pic"`
}

// ProfileDetail is the owner-facing representation of a profile
type ProfileDetail struct {
	PublicProfile
	Email          string `json:"email"`
	EmailConfirmed bool   `json:"email_confirmed"`
}

// ToPublicProfile converts a User to its public representation
func (u *User) ToPublicProfile() PublicProfile {
	return PublicProfile{
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		About:      u.About,
		ProfilePic: u.ProfilePic,
	}
}

// ToProfileDetail converts a User to its owner-facing representation
func (u *User) ToProfileDetail() ProfileDetail {
	return ProfileDetail{
		PublicProfile:  u.ToPublicProfile(),
		Email:          u.Email,
		EmailConfirmed: u.EmailConfirmed,
	}
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
