package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kafaa-plus/kafaa-maintenance-api/models"
)

// ProfileStore is the persistence boundary for customer profiles, keyed by
// the contact identifier used at login.
type ProfileStore interface {
	// FindByIdentifier returns the profile for the identifier, or nil when
	// the identifier has never been seen.
	FindByIdentifier(phoneOrCode string) (*models.UserProfile, error)
	// Insert persists a finalized profile.
	Insert(profile *models.UserProfile) error
}

// GormProfileStore is the GORM-backed profile store.
type GormProfileStore struct {
	db *gorm.DB
}

var profileStoreInstance ProfileStore

// InitProfileStore initializes the package profile store around db.
func InitProfileStore(db *gorm.DB) ProfileStore {
	profileStoreInstance = &GormProfileStore{db: db}
	return profileStoreInstance
}

// GetProfileStore returns the initialized profile store instance
func GetProfileStore() ProfileStore {
	return profileStoreInstance
}

// SetProfileStore sets the profile store instance (primarily for testing)
func SetProfileStore(s ProfileStore) {
	profileStoreInstance = s
}

func (s *GormProfileStore) FindByIdentifier(phoneOrCode string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.Where("phone_or_code = ?", phoneOrCode).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}
	return &profile, nil
}

func (s *GormProfileStore) Insert(profile *models.UserProfile) error {
	if err := s.db.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	return nil
}
