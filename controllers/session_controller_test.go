package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kafaa-plus/kafaa-maintenance-api/models"
	"github.com/kafaa-plus/kafaa-maintenance-api/store"
	"github.com/stretchr/testify/assert"
)

// mockIdentifierMiddleware seeds only the raw identifier, the way
// SessionRequired does for routes that run before profile resolution.
func mockIdentifierMiddleware(identifier string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("identifier", identifier)
		c.Next()
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:           "Admin access code",
			requestBody:    map[string]interface{}{"identifier": "admin1234"},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				profile := data["profile"].(map[string]interface{})
				assert.Equal(t, models.RoleAdmin, profile["role"])
				assert.Equal(t, "Kafaa Admin", profile["name"])
				assert.Equal(t, false, data["onboarding_required"])
			},
		},
		{
			name:           "Technician identifier",
			requestBody:    map[string]interface{}{"identifier": "tec-042"},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				profile := response["data"].(map[string]interface{})["profile"].(map[string]interface{})
				assert.Equal(t, models.RoleTechnician, profile["role"])
			},
		},
		{
			name:           "First-time customer needs onboarding",
			requestBody:    map[string]interface{}{"identifier": "0501234567"},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, true, data["onboarding_required"])
				profile := data["profile"].(map[string]interface{})
				assert.Equal(t, models.RoleCustomer, profile["role"])
			},
		},
		{
			name:           "Identifier is trimmed",
			requestBody:    map[string]interface{}{"identifier": "  tec-042  "},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				profile := response["data"].(map[string]interface{})["profile"].(map[string]interface{})
				assert.Equal(t, models.RoleTechnician, profile["role"])
				assert.Equal(t, "tec-042", profile["phone_or_code"])
			},
		},
		{
			name:           "Missing identifier",
			requestBody:    map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupControllerTest(t)

			router := setupTestRouter()
			router.POST("/session/login", Login)

			w := performJSON(router, http.MethodPost, "/session/login", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code)

			response := decodeResponse(t, w)
			if tt.expectedError != "" {
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestLoginReturnsStoredCustomerProfile(t *testing.T) {
	setupControllerTest(t)

	err := store.GetProfileStore().Insert(&models.UserProfile{
		PhoneOrCode: "0501234567",
		Role:        models.RoleCustomer,
		Name:        "Ahmed",
	})
	assert.NoError(t, err)

	router := setupTestRouter()
	router.POST("/session/login", Login)

	w := performJSON(router, http.MethodPost, "/session/login", map[string]interface{}{"identifier": "0501234567"})
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, false, data["onboarding_required"])
	profile := data["profile"].(map[string]interface{})
	assert.Equal(t, "Ahmed", profile["name"])
}

func TestCompleteOnboarding(t *testing.T) {
	tests := []struct {
		name           string
		identifier     string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:       "Customer completes onboarding",
			identifier: "0501234567",
			requestBody: map[string]interface{}{
				"name":      "Ahmed",
				"latitude":  24.7136,
				"longitude": 46.6753,
				"address":   "Olaya district, Riyadh",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:       "Technician identifiers never onboard",
			identifier: "tec-042",
			requestBody: map[string]interface{}{
				"name":    "Tech",
				"address": "Riyadh",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "ONBOARDING_NOT_REQUIRED",
		},
		{
			name:       "Missing name",
			identifier: "0501234567",
			requestBody: map[string]interface{}{
				"address": "Riyadh",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupControllerTest(t)

			router := setupTestRouter()
			router.POST("/session/onboarding", mockIdentifierMiddleware(tt.identifier), CompleteOnboarding)

			w := performJSON(router, http.MethodPost, "/session/onboarding", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code)

			response := decodeResponse(t, w)
			if tt.expectedError != "" {
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			}
		})
	}
}

func TestCompleteOnboardingConflictOnExistingProfile(t *testing.T) {
	setupControllerTest(t)

	router := setupTestRouter()
	router.POST("/session/onboarding", mockIdentifierMiddleware("0501234567"), CompleteOnboarding)

	body := map[string]interface{}{
		"name":    "Ahmed",
		"address": "Riyadh",
	}
	w := performJSON(router, http.MethodPost, "/session/onboarding", body)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(router, http.MethodPost, "/session/onboarding", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	response := decodeResponse(t, w)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "PROFILE_EXISTS", errorData["code"])
}

func TestGetMyProfile(t *testing.T) {
	setupControllerTest(t)

	router := setupTestRouter()
	router.GET("/session/me", mockSessionMiddleware(customerProfile("0501234567", "Ahmed")), GetMyProfile)

	w := performJSON(router, http.MethodGet, "/session/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Ahmed", data["name"])
	assert.Equal(t, models.RoleCustomer, data["role"])
}

func TestGetMyProfileWithoutSession(t *testing.T) {
	setupControllerTest(t)

	router := setupTestRouter()
	router.GET("/session/me", GetMyProfile)

	w := performJSON(router, http.MethodGet, "/session/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
