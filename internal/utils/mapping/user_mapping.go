package mapping

import (
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/SscSPs/site_workflow_app/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:     d.UserID,
		Name:       d.Name,
		Email:      d.Email,
		Role:       string(d.Role),
		SuperAdmin: d.SuperAdmin,
	}
}

// ToDomainUser converts a model User to a domain User. Unknown stored roles
// are kept verbatim so the access resolver denies them.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:     m.UserID,
		Name:       m.Name,
		Email:      m.Email,
		Role:       domain.Role(m.Role),
		SuperAdmin: m.SuperAdmin,
	}
}
