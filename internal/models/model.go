package models

import (
	"time"

	"github.com/walleta/backend/internal/uuid"
	"gorm.io/gorm"
)

type WalletaContext string

const (
	DBContextURL WalletaContext = "walleta-backend-url"
)

// DefaultModel is the base model for all resources.
type DefaultModel struct {
	ID uuid.UUID `json:"id" gorm:"primaryKey" example:"65392deb-5e92-4268-b114-297faad6cdce"` // UUID for the resource
	Timestamps
}

// Timestamps contains the timestamps that gorm sets automatically.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt" example:"2025-04-02T19:28:44.491514Z"` // Time the resource was created
	UpdatedAt time.Time `json:"updatedAt" example:"2025-04-17T20:14:01.048145Z"` // Last time the resource was updated
}

// OwnedModel is the base model for resources that belong to exactly one user.
type OwnedModel struct {
	DefaultModel
	UserID uuid.UUID `json:"userId" gorm:"index" example:"1e777d24-3f5b-4c43-8000-04f65f895578"` // ID of the owning user
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000.
func (m *DefaultModel) AfterFind(_ *gorm.DB) (err error) {
	m.CreatedAt = m.CreatedAt.In(time.UTC)
	m.UpdatedAt = m.UpdatedAt.In(time.UTC)
	return nil
}

// BeforeCreate is set to generate a UUID for the resource.
func (m *DefaultModel) BeforeCreate(_ *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
