package models

import (
	"time"

	"gorm.io/gorm"
)

// Actor roles. Role determination from a login identifier is an external
// convention handled by the session service, not a security boundary.
const (
	RoleCustomer   = "CUSTOMER"
	RoleTechnician = "TECHNICIAN"
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SUPERVISOR"
)

// UserProfile represents an actor in the system. Only customer profiles are
// persisted; technician, admin and supervisor profiles are synthesized from
// the login identifier at session time.
type UserProfile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PhoneOrCode string         `gorm:"uniqueIndex;not null" json:"phone_or_code"` // contact identifier used at login
	Role        string         `gorm:"not null;default:'CUSTOMER'" json:"role"`
	Name        string         `gorm:"not null" json:"name"`
	Latitude    *float64       `json:"latitude"` // saved location, customers only
	Longitude   *float64       `json:"longitude"`
	Address     *string        `json:"address"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the UserProfile model
func (UserProfile) TableName() string {
	return "user_profiles"
}

// IsValidRole reports whether s is a known actor role.
func IsValidRole(s string) bool {
	switch s {
	case RoleCustomer, RoleTechnician, RoleAdmin, RoleSupervisor:
		return true
	}
	return false
}
