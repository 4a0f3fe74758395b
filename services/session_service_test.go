package services

import (
	"testing"

	"github.com/kafaa-plus/kafaa-maintenance-api/config"
	"github.com/kafaa-plus/kafaa-maintenance-api/models"
	"github.com/kafaa-plus/kafaa-maintenance-api/store"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSessionService(t *testing.T) *SessionService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.UserProfile{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return NewSessionService(store.InitProfileStore(db), &config.Config{AdminAccessCode: "admin1234"})
}

func TestRoleFor(t *testing.T) {
	svc := setupSessionService(t)

	tests := []struct {
		name       string
		identifier string
		role       string
	}{
		{"Admin access code", "admin1234", models.RoleAdmin},
		{"Technician prefix", "tec-042", models.RoleTechnician},
		{"Supervisor prefix", "sup-001", models.RoleSupervisor},
		{"Phone number", "0501234567", models.RoleCustomer},
		{"Arbitrary code", "hello", models.RoleCustomer},
		{"Prefix is case sensitive", "TEC-042", models.RoleCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.role, svc.RoleFor(tt.identifier))
		})
	}
}

func TestResolveSynthesizesNonCustomerProfiles(t *testing.T) {
	svc := setupSessionService(t)

	tests := []struct {
		identifier string
		role       string
		name       string
	}{
		{"admin1234", models.RoleAdmin, "Kafaa Admin"},
		{"tec-042", models.RoleTechnician, "Kafaa Technician"},
		{"sup-001", models.RoleSupervisor, "Kafaa Supervisor"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			res, err := svc.Resolve(tt.identifier)
			assert.NoError(t, err)
			assert.False(t, res.OnboardingRequired)
			assert.Equal(t, tt.role, res.Profile.Role)
			assert.Equal(t, tt.name, res.Profile.Name)
			assert.Equal(t, tt.identifier, res.Profile.PhoneOrCode)
		})
	}
}

func TestResolveUnknownCustomerRequiresOnboarding(t *testing.T) {
	svc := setupSessionService(t)

	res, err := svc.Resolve("0501234567")
	assert.NoError(t, err)
	assert.True(t, res.OnboardingRequired)
	assert.Equal(t, models.RoleCustomer, res.Profile.Role)
	assert.Equal(t, "0501234567", res.Profile.PhoneOrCode)
}

func TestCompleteOnboardingThenResolve(t *testing.T) {
	svc := setupSessionService(t)

	profile, err := svc.CompleteOnboarding("0501234567", "Ahmed", 24.7136, 46.6753, "Olaya district, Riyadh")
	assert.NoError(t, err)
	assert.Equal(t, "Ahmed", profile.Name)
	assert.Equal(t, 24.7136, *profile.Latitude)

	res, err := svc.Resolve("0501234567")
	assert.NoError(t, err)
	assert.False(t, res.OnboardingRequired, "a stored profile needs no onboarding")
	assert.Equal(t, "Ahmed", res.Profile.Name)
}

func TestCompleteOnboardingRejectsNonCustomers(t *testing.T) {
	svc := setupSessionService(t)

	_, err := svc.CompleteOnboarding("tec-042", "Tech", 0, 0, "")
	var onboardingErr *OnboardingError
	if assert.ErrorAs(t, err, &onboardingErr) {
		assert.Equal(t, "ONBOARDING_NOT_REQUIRED", onboardingErr.Code)
	}
}

func TestCompleteOnboardingRejectsDuplicateProfile(t *testing.T) {
	svc := setupSessionService(t)

	_, err := svc.CompleteOnboarding("0501234567", "Ahmed", 24.7, 46.6, "Riyadh")
	assert.NoError(t, err)

	_, err = svc.CompleteOnboarding("0501234567", "Someone Else", 21.5, 39.2, "Jeddah")
	var onboardingErr *OnboardingError
	if assert.ErrorAs(t, err, &onboardingErr) {
		assert.Equal(t, "PROFILE_EXISTS", onboardingErr.Code)
	}
}
