package services

import (
	"strings"

	"github.com/kafaa-plus/kafaa-maintenance-api/config"
	"github.com/kafaa-plus/kafaa-maintenance-api/models"
	"github.com/kafaa-plus/kafaa-maintenance-api/store"
)

// Display names for synthesized non-customer profiles.
const (
	adminDisplayName      = "Kafaa Admin"
	technicianDisplayName = "Kafaa Technician"
	supervisorDisplayName = "Kafaa Supervisor"
)

// SessionResolution is the outcome of resolving a login identifier: either a
// usable profile, or a customer profile that still needs onboarding (name
// and location) before any dashboard access.
type SessionResolution struct {
	Profile            models.UserProfile `json:"profile"`
	OnboardingRequired bool               `json:"onboarding_required"`
}

// SessionService maps a login identifier to a role and a profile. Role
// determination is the external identifier convention carried over from the
// client apps: the configured admin access code names the admin, "tec" and
// "sup" prefixes name technicians and supervisors, everything else is a
// customer. This is routing, not a security boundary.
type SessionService struct {
	profiles  store.ProfileStore
	adminCode string
}

// NewSessionService creates a new session service instance
func NewSessionService(profiles store.ProfileStore, cfg *config.Config) *SessionService {
	return &SessionService{
		profiles:  profiles,
		adminCode: cfg.AdminAccessCode,
	}
}

// RoleFor returns the role the identifier convention assigns.
func (s *SessionService) RoleFor(identifier string) string {
	switch {
	case identifier == s.adminCode:
		return models.RoleAdmin
	case strings.HasPrefix(identifier, "tec"):
		return models.RoleTechnician
	case strings.HasPrefix(identifier, "sup"):
		return models.RoleSupervisor
	default:
		return models.RoleCustomer
	}
}

// Resolve maps an identifier to its session resolution. Non-customer roles
// get a synthesized profile with no persistence lookup; customers get their
// stored profile, or an onboarding-required resolution when the identifier
// has never been seen.
func (s *SessionService) Resolve(identifier string) (*SessionResolution, error) {
	role := s.RoleFor(identifier)
	if role != models.RoleCustomer {
		return &SessionResolution{Profile: synthesizeProfile(identifier, role)}, nil
	}

	profile, err := s.profiles.FindByIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return &SessionResolution{Profile: *profile}, nil
	}

	return &SessionResolution{
		Profile: models.UserProfile{
			PhoneOrCode: identifier,
			Role:        models.RoleCustomer,
		},
		OnboardingRequired: true,
	}, nil
}

// CompleteOnboarding finalizes a first-time customer profile with the
// collected name and location, persists it and returns it.
func (s *SessionService) CompleteOnboarding(identifier, name string, latitude, longitude float64, address string) (*models.UserProfile, error) {
	if role := s.RoleFor(identifier); role != models.RoleCustomer {
		return nil, &OnboardingError{Code: "ONBOARDING_NOT_REQUIRED", Message: "Only customer identifiers require onboarding"}
	}

	existing, err := s.profiles.FindByIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &OnboardingError{Code: "PROFILE_EXISTS", Message: "A profile already exists for this identifier"}
	}

	profile := &models.UserProfile{
		PhoneOrCode: identifier,
		Role:        models.RoleCustomer,
		Name:        name,
		Latitude:    &latitude,
		Longitude:   &longitude,
		Address:     &address,
	}
	if err := s.profiles.Insert(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// synthesizeProfile builds a deterministic profile for non-customer roles.
func synthesizeProfile(identifier, role string) models.UserProfile {
	name := technicianDisplayName
	switch role {
	case models.RoleAdmin:
		name = adminDisplayName
	case models.RoleSupervisor:
		name = supervisorDisplayName
	}
	return models.UserProfile{
		PhoneOrCode: identifier,
		Role:        role,
		Name:        name,
	}
}

// OnboardingError represents a profile onboarding failure
type OnboardingError struct {
	Code    string
	Message string
}

func (e *OnboardingError) Error() string {
	return e.Message
}
