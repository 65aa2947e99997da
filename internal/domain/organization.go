package domain

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant/organization in the system. Every
// translation lookup and carrier validation is scoped to one.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewOrganization creates a new organization.
func NewOrganization(name string) Organization {
	return Organization{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}
