// Package v1 contains the handlers of the v1 API.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/walleta/backend/internal/auth"
	"github.com/walleta/backend/internal/bankimport"
	"github.com/walleta/backend/internal/subscription"
	"github.com/walleta/backend/internal/uuid"
	"gorm.io/gorm"
)

// Controller holds the dependencies of all v1 handlers.
type Controller struct {
	DB            *gorm.DB
	Auth          *auth.Provider
	Subscriptions *subscription.Lifecycle
	Banking       *bankimport.Importer
	Now           func() time.Time

	// Require an active subscription for the bank routes
	Paywall bool
}

// authenticated returns a group for r whose handlers require a valid
// bearer token.
func (co Controller) authenticated(r *gin.RouterGroup) *gin.RouterGroup {
	return r.Group("", co.Auth.Middleware())
}

// idParam parses the path parameter name as UUID.
func idParam(c *gin.Context, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := id.UnmarshalParam(c.Param(name))
	if err != nil {
		return uuid.Nil, err
	}

	if id == uuid.Nil {
		return uuid.Nil, uuid.ErrInvalidUUID
	}

	return id, nil
}

// getOwned returns the resource of type T with the ID from the path if it
// belongs to the authenticated user.
func getOwned[T any](c *gin.Context, db *gorm.DB) (T, error) {
	var resource T

	id, err := idParam(c, "id")
	if err != nil {
		return resource, err
	}

	err = db.WithContext(c.Request.Context()).Where("id = ? AND user_id = ?", id, auth.CurrentUser(c).ID).First(&resource).Error
	return resource, err
}

// deleteOwned deletes the resource of type T with the ID from the path if it
// belongs to the authenticated user.
func deleteOwned[T any](c *gin.Context, db *gorm.DB) error {
	resource, err := getOwned[T](c, db)
	if err != nil {
		return err
	}

	return db.WithContext(c.Request.Context()).Delete(&resource).Error
}
