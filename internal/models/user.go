package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is an account holder. All other resources are owned by exactly one user.
type User struct {
	DefaultModel
	Email              string     `json:"email" gorm:"uniqueIndex:user_email" example:"anna@example.com"` // Login identifier, stored in lower case
	Name               string     `json:"name" example:"Anna Virtanen"`                                   // Display name
	PasswordHash       string     `json:"-"`
	SubscriptionActive bool       `json:"subscriptionActive" example:"false"`             // Whether the user has paid for the current period
	SubscriptionEnd    *time.Time `json:"subscriptionEnd" example:"2025-07-01T12:00:00Z"` // End of the paid period
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	u.Name = strings.TrimSpace(u.Name)

	if u.Email == "" {
		return ErrEmailMissing
	}

	return nil
}

// HasActiveSubscription reports if the user has an active, unexpired subscription at t.
func (u User) HasActiveSubscription(t time.Time) bool {
	return u.SubscriptionActive && u.SubscriptionEnd != nil && u.SubscriptionEnd.After(t)
}

// NormalizeEmail returns the canonical form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
