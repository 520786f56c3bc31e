package dto

import "time"

// RegisterRequest alta de una organización con su primer usuario
// (rol super_admin). El password se hashea en el use case.
type RegisterRequest struct {
	OrganizationName string `json:"organization_name" validate:"required,min=2,max=200"`
	Name             string `json:"name" validate:"required,min=1,max=200"`
	Username         string `json:"username" validate:"required,min=3,max=60,alphanum"`
	Password         string `json:"password" validate:"required,min=8"`
	Language         string `json:"language" validate:"omitempty,bcp47_language_tag"`
}

// LoginRequest inicio de sesión. RememberMe extiende la vigencia del token.
type LoginRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Language       string    `json:"language"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SessionResponse salida de login/register: token + perfil. El token además
// viaja como cookie httpOnly.
type SessionResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
