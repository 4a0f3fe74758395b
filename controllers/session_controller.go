package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kafaa-plus/kafaa-maintenance-api/config"
	"github.com/kafaa-plus/kafaa-maintenance-api/middleware"
	"github.com/kafaa-plus/kafaa-maintenance-api/services"
	"github.com/kafaa-plus/kafaa-maintenance-api/store"
)

// LoginRequest represents the request body for resolving a login identifier
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

// OnboardingRequest represents the request body for completing customer onboarding
type OnboardingRequest struct {
	Name      string  `json:"name" binding:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address" binding:"required"`
}

// Login handles POST /api/v1/session/login - resolves a login identifier to
// a role and either an existing profile or an onboarding requirement.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	sessionService := services.NewSessionService(store.GetProfileStore(), config.GetConfig())
	resolution, err := sessionService.Resolve(strings.TrimSpace(req.Identifier))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SESSION_ERROR",
				"message": "Failed to resolve session",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    resolution,
	})
}

// CompleteOnboarding handles POST /api/v1/session/onboarding - collects the
// name and location for a first-time customer identifier and persists the
// finalized profile.
func CompleteOnboarding(c *gin.Context) {
	identifier, err := middleware.GetIdentifier(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract session information",
			},
		})
		return
	}

	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	sessionService := services.NewSessionService(store.GetProfileStore(), config.GetConfig())
	profile, err := sessionService.CompleteOnboarding(identifier, req.Name, req.Latitude, req.Longitude, req.Address)
	if err != nil {
		var onboardingErr *services.OnboardingError
		if errors.As(err, &onboardingErr) {
			status := http.StatusBadRequest
			if onboardingErr.Code == "PROFILE_EXISTS" {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{
				"success": false,
				"error": gin.H{
					"code":    onboardingErr.Code,
					"message": onboardingErr.Message,
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to persist profile",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    profile,
	})
}

// GetMyProfile handles GET /api/v1/session/me - returns the resolved profile
// for the active session.
func GetMyProfile(c *gin.Context) {
	profile, err := middleware.GetProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract session information",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}
