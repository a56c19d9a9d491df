package dto

import (
	"github.com/safinah-app/clearance_billing_app/internal/core/domain"
)

// --- Client DTOs ---

// CreateClientRequest defines data for creating a new client.
type CreateClientRequest struct {
	Name              string `json:"name" binding:"required"`
	Email             string `json:"email" binding:"omitempty,email"`
	Phone             string `json:"phone"`
	TaxRegistrationNo string `json:"taxRegistrationNo"`
	Address           string `json:"address"`
}

// UpdateClientRequest defines data for updating an existing client.
type UpdateClientRequest struct {
	Name              *string `json:"name"`
	Email             *string `json:"email" binding:"omitempty,email"`
	Phone             *string `json:"phone"`
	TaxRegistrationNo *string `json:"taxRegistrationNo"`
	Address           *string `json:"address"`
	IsActive          *bool   `json:"isActive"`
}

// ListClientsParams defines pagination for listing clients.
type ListClientsParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ClientResponse defines data returned for a client.
type ClientResponse struct {
	ClientID          string `json:"clientID"`
	CompanyID         string `json:"companyID"`
	Name              string `json:"name"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	TaxRegistrationNo string `json:"taxRegistrationNo,omitempty"`
	Address           string `json:"address,omitempty"`
	IsActive          bool   `json:"isActive"`
}

// ToClientResponse converts a domain.Client to DTO.
func ToClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ClientID:          c.ClientID,
		CompanyID:         c.CompanyID,
		Name:              c.Name,
		Email:             c.Email,
		Phone:             c.Phone,
		TaxRegistrationNo: c.TaxRegistrationNo,
		Address:           c.Address,
		IsActive:          c.IsActive,
	}
}

// ListClientsResponse wraps a page of clients.
type ListClientsResponse struct {
	Clients   []ClientResponse `json:"clients"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToListClientsResponse converts a page of domain clients to DTO.
func ToListClientsResponse(cs []domain.Client, nextToken *string) ListClientsResponse {
	list := make([]ClientResponse, len(cs))
	for i, c := range cs {
		list[i] = ToClientResponse(&c)
	}
	return ListClientsResponse{Clients: list, NextToken: nextToken}
}
