package mapping

import (
	"github.com/harborbank/corebank_backend/internal/core/domain"
	"github.com/harborbank/corebank_backend/internal/models"
)

// ToDomainProfile converts a model Profile to a domain Profile.
// The password hash never leaves the storage layer.
func ToDomainProfile(m models.Profile) domain.Profile {
	return domain.Profile{
		ProfileID:   m.ProfileID,
		Username:    m.Username,
		Name:        m.Name,
		Email:       m.Email,
		Role:        domain.Role(m.Role),
		AuditFields: ToDomainAuditFields(m.AuditFields),
		DeletedAt:   m.DeletedAt,
	}
}

// ToDomainProfileSlice converts a slice of model Profiles to domain Profiles
func ToDomainProfileSlice(ms []models.Profile) []domain.Profile {
	ds := make([]domain.Profile, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProfile(m)
	}
	return ds
}
