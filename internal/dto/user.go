package dto

import (
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

// RegisterUserRequest defines data for local registration.
type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest defines data for local login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name *string `json:"name"` // Only name is updatable for now
}

// UserResponse defines data returned for a user.
type UserResponse struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// ToUserResponse converts a domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID: u.UserID,
		Name:   u.Name,
		Email:  u.Email,
	}
}
