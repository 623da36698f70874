package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest holds credentials for authenticating an admin.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	IP       string `json:"-"`
}

// LoginResponse mirrors the payload the dashboard consumes after login.
type LoginResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expiresIn"`
}

// ChangePasswordRequest carries a password rotation for the signed-in admin.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// JWTClaims is the access-token payload. The registered ID (jti) feeds the
// logout denylist.
type JWTClaims struct {
	UserID string   `json:"userId"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	jwt.RegisteredClaims
}
