package dto

import (
	"time"

	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

// CreateAPITokenRequest defines data for creating a new API token.
type CreateAPITokenRequest struct {
	Name string `json:"name" binding:"required,min=3,max=100"`
	// ExpiresIn is the token lifetime in seconds; omit for a non-expiring token.
	ExpiresIn *int64 `json:"expiresIn,omitempty"`
}

// APITokenResponse defines token metadata returned by the API. The token
// value itself is only ever returned once, at creation.
type APITokenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CreateAPITokenResponse is returned when a new API token is created.
type CreateAPITokenResponse struct {
	Token   string           `json:"token"`
	Details APITokenResponse `json:"details"`
}

// ToAPITokenResponse converts a domain.APIToken to DTO.
func ToAPITokenResponse(t *domain.APIToken) APITokenResponse {
	return APITokenResponse{
		ID:         t.ID,
		Name:       t.Name,
		LastUsedAt: t.LastUsedAt,
		ExpiresAt:  t.ExpiresAt,
		CreatedAt:  t.CreatedAt,
	}
}

// ToAPITokenResponseList converts a slice of domain.APIToken to DTOs.
func ToAPITokenResponseList(tokens []domain.APIToken) []APITokenResponse {
	list := make([]APITokenResponse, len(tokens))
	for i, t := range tokens {
		list[i] = ToAPITokenResponse(&t)
	}
	return list
}

// ToCreateAPITokenResponse pairs the one-time plaintext token with its metadata.
func ToCreateAPITokenResponse(token string, details domain.APIToken) CreateAPITokenResponse {
	return CreateAPITokenResponse{
		Token:   token,
		Details: ToAPITokenResponse(&details),
	}
}
