package dto

import (
	"time"

	"github.com/harborbank/corebank_backend/internal/core/domain"
)

// CreateProfileRequest defines the data needed to register a profile.
// The role comes from this administrative request, never from a client claim.
type CreateProfileRequest struct {
	Username string      `json:"username" binding:"required,min=3,max=64"`
	Password string      `json:"password" binding:"required,min=8"`
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Role     domain.Role `json:"role" binding:"required,oneof=CUSTOMER STAFF"`
}

// UpdateProfileRequest defines the mutable profile fields.
// Pointers distinguish absent fields from zero values.
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// ListProfilesParams defines query parameters for listing profiles.
type ListProfilesParams struct {
	Limit  int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ProfileResponse defines the data returned for a profile.
type ProfileResponse struct {
	ProfileID string      `json:"profileID"`
	Username  string      `json:"username"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	Deleted   bool        `json:"deleted"`
}

// ToProfileResponse converts a domain.Profile to ProfileResponse DTO
func ToProfileResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ProfileID: p.ProfileID,
		Username:  p.Username,
		Name:      p.Name,
		Email:     p.Email,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
		Deleted:   p.IsDeleted(),
	}
}

// ToListProfileResponse converts a slice of domain.Profile to DTOs
func ToListProfileResponse(profiles []domain.Profile) []ProfileResponse {
	res := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		res[i] = ToProfileResponse(&p)
	}
	return res
}
