package handler

import "github.com/communityzine/magazine-system/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=80"`
	Password    string `json:"password"     validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User *domain.User `json:"user"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user moderator admin"`
}
