package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kafaa-plus/kafaa-maintenance-api/models"
	"github.com/kafaa-plus/kafaa-maintenance-api/services"
)

// DiagnoseRequest represents the request body for a technician diagnosis
type DiagnoseRequest struct {
	ServiceType string `json:"service_type" binding:"required"`
	Description string `json:"description" binding:"required"`
	MediaRef    string `json:"media_ref"`
}

// Diagnose handles POST /api/v1/diagnosis - returns an AI-assisted diagnosis
// triple for technicians. The estimation collaborator is best-effort: any
// failure degrades to the fixed fallback triple, never to an error.
func Diagnose(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	if actor.Role() != models.RoleTechnician {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only technicians can request a diagnosis",
			},
		})
		return
	}

	var req DiagnoseRequest
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

	diagnosis := services.FallbackDiagnosis()
	if estimator := services.GetEstimationService(); estimator != nil {
		diagnosis = estimator.Diagnose(c.Request.Context(), req.ServiceType, req.Description, req.MediaRef)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    diagnosis,
	})
}
