package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// BaseUser contains the account fields shared by every user document
type BaseUser struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Name     string             `json:"name" bson:"name" validate:"required,min=2,max=50"`
	Email    string             `json:"email" bson:"email" validate:"required,email"`
	Password string             `json:"-" bson:"password" validate:"required,min=6"`
	Roles    []string           `json:"roles" bson:"roles"`
}

// UserDetails contains all account information
type UserDetails struct {
	BaseUser   `bson:",inline"`
	Department string `json:"department,omitempty" bson:"department"`
	Position   string `json:"position,omitempty" bson:"position"`
	Phone      string `json:"phone,omitempty" bson:"phone" validate:"omitempty,e164"`
}

// SessionUser is the identity slice of a session: who the user is, the roles
// they hold and the permissions derived from those roles. Roles and
// permissions are always recomputed together, never patched individually.
type SessionUser struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Roles       []Role          `json:"roles"`
	Permissions []PermissionKey `json:"permissions"`
}

// Session is the client-held authenticated identity plus its credential
// material. It is created on sign-in/sign-up, replaced wholesale on change,
// and destroyed on sign-out.
type Session struct {
	User         SessionUser `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken,omitempty"`
}

// CreateUserRequest is used for account creation/signup requests
type CreateUserRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,e164"`
}

// UserResponse is used for sending account data in responses (no password)
type UserResponse struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
	Roles []string           `json:"roles" bson:"roles"`
}

// LoginRequest is used for login requests
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is used for login and signup responses
type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

// LogoutRequest carries the refresh token to revoke; the token is optional
// because logout must succeed even when the client lost it
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// ForgotPasswordRequest is used for password recovery requests
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is used for completing a password recovery
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}
