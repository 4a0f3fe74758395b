package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kafaa-plus/kafaa-maintenance-api/access"
	"github.com/kafaa-plus/kafaa-maintenance-api/lifecycle"
	"github.com/kafaa-plus/kafaa-maintenance-api/middleware"
	"github.com/kafaa-plus/kafaa-maintenance-api/models"
	"github.com/kafaa-plus/kafaa-maintenance-api/services"
	"github.com/kafaa-plus/kafaa-maintenance-api/store"
)

// CreateRequestRequest represents the request body for creating a maintenance request
type CreateRequestRequest struct {
	ServiceType     string     `json:"service_type" binding:"required"`
	Description     string     `json:"description" binding:"required"`
	Latitude        float64    `json:"latitude"`
	Longitude       float64    `json:"longitude"`
	Address         string     `json:"address" binding:"required"`
	MapsURL         *string    `json:"maps_url"`
	MediaRef        *string    `json:"media_ref"`
	MediaType       *string    `json:"media_type"`
	EstimatedCost   *float64   `json:"estimated_cost" binding:"omitempty,gte=0"`
	PartsRequested  bool       `json:"parts_requested"`
	AppointmentTime *time.Time `json:"appointment_time"`
}

// UpdateStatusRequest represents the request body for an ordinary status transition
type UpdateStatusRequest struct {
	Status           string  `json:"status" binding:"required"`
	TechnicianName   *string `json:"technician_name"`
	IncompleteReason *string `json:"incomplete_reason"`
	IncompleteNotes  *string `json:"incomplete_notes"`
}

// SettlePaymentRequest represents the request body for a payment transition
type SettlePaymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}

// EditRequestRequest represents the request body for a general field edit.
// Only provided fields are changed; payment bookkeeping is never editable
// here (see lifecycle.FieldEdit).
type EditRequestRequest struct {
	ServiceType      *string    `json:"service_type"`
	Description      *string    `json:"description"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	Address          *string    `json:"address"`
	MapsURL          *string    `json:"maps_url"`
	MediaRef         *string    `json:"media_ref"`
	MediaType        *string    `json:"media_type"`
	EstimatedCost    *float64   `json:"estimated_cost" binding:"omitempty,gte=0"`
	PartsRequested   *bool      `json:"parts_requested"`
	AppointmentTime  *time.Time `json:"appointment_time"`
	TechnicianName   *string    `json:"technician_name"`
	Status           *string    `json:"status"`
	PaymentStatus    *string    `json:"payment_status"`
	IncompleteReason *string    `json:"incomplete_reason"`
	IncompleteNotes  *string    `json:"incomplete_notes"`
}

// actorFromContext resolves the request's actor or writes the error response.
func actorFromContext(c *gin.Context) (access.Actor, bool) {
	profile, err := middleware.GetProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract session information",
			},
		})
		return nil, false
	}

	actor, err := access.ActorFor(profile)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNKNOWN_ROLE",
				"message": "Session role is not recognized",
			},
		})
		return nil, false
	}
	return actor, true
}

// respondMutationError maps a mutation failure onto the response envelope.
func respondMutationError(c *gin.Context, err error) {
	var permErr *access.PermissionError
	var valErr *models.ValidationError

	switch {
	case errors.As(err, &permErr):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": permErr.Error(),
			},
		})
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": valErr.Error(),
			},
		})
	case errors.Is(err, store.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REQUEST_NOT_FOUND",
				"message": "Maintenance request not found",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update maintenance request",
			},
		})
	}
}

// CreateRequest handles POST /api/v1/requests - submits a new maintenance request.
// Customers create requests; the admin intake path is accepted but not wired
// to collection mutation; other roles are rejected.
func CreateRequest(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req CreateRequestRequest
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

	if req.MediaType != nil && !models.IsValidMediaType(*req.MediaType) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "media_type must be image or video",
			},
		})
		return
	}

	// Resolve the cost before taking the collection lock: estimation is
	// best-effort and must never hold up or block a write cycle.
	cost := float64(services.FallbackEstimate)
	if req.EstimatedCost != nil {
		cost = *req.EstimatedCost
	} else if estimator := services.GetEstimationService(); estimator != nil {
		cost = estimator.EstimateCost(c.Request.Context(), req.ServiceType, req.Description)
	}

	profile := actor.Profile()
	newRequest := models.MaintenanceRequest{
		ID:              uuid.NewString(),
		ServiceType:     req.ServiceType,
		Description:     req.Description,
		MediaRef:        req.MediaRef,
		MediaType:       req.MediaType,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Address:         req.Address,
		MapsURL:         req.MapsURL,
		EstimatedCost:   cost,
		PartsRequested:  req.PartsRequested,
		Status:          models.StatusPending,
		PaymentStatus:   models.PaymentUnpaid,
		AppointmentTime: req.AppointmentTime,
		CustomerName:    &profile.Name,
		CustomerPhone:   &profile.PhoneOrCode,
		PhoneOrCode:     &profile.PhoneOrCode,
	}

	var created *models.MaintenanceRequest
	err := store.GetRequestStore().Update(func(all []models.MaintenanceRequest) ([]models.MaintenanceRequest, error) {
		next, record, err := actor.Create(all, newRequest)
		if err != nil {
			return nil, err
		}
		created = record
		return next, nil
	})
	if err != nil {
		respondMutationError(c, err)
		return
	}

	if created == nil {
		// Admin intake placeholder: acknowledged, collection untouched.
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    nil,
			"message": "Request intake for this role is not wired to the collection",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    created,
	})
}

// ListRequests handles GET /api/v1/requests - returns the role projection of
// the shared request collection, newest-first.
func ListRequests(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	all, err := store.GetRequestStore().LoadAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load maintenance requests",
			},
		})
		return
	}

	visible := actor.Visible(all)
	attachMediaURLs(visible)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    visible,
	})
}

// UpdateRequestStatus handles PATCH /api/v1/requests/:id/status - an
// ordinary status transition. Payment fields, payment method and the
// warranty stamp are never touched by this path. Supervisor calls land on a
// wired no-op.
func UpdateRequestStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
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

	id := c.Param("id")
	updated, err := store.UpdateOne(store.GetRequestStore(), id, func(current models.MaintenanceRequest) (models.MaintenanceRequest, error) {
		mutation, err := actor.Authorize(lifecycle.StatusChange{Status: req.Status}, current)
		if err != nil {
			return current, err
		}
		next, err := mutation.Apply(current)
		if err != nil {
			return current, err
		}
		// Status-adjacent annotations ride along without touching the
		// transition itself.
		if req.TechnicianName != nil {
			next.TechnicianName = req.TechnicianName
		}
		if next.Status == models.StatusIncomplete {
			if req.IncompleteReason != nil {
				next.IncompleteReason = req.IncompleteReason
			}
			if req.IncompleteNotes != nil {
				next.IncompleteNotes = req.IncompleteNotes
			}
		}
		return next, nil
	})
	if err != nil {
		respondMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// SettleRequestPayment handles POST /api/v1/requests/:id/payment - the
// payment transition. Marking PAID is the settlement operation: it forces
// status COMPLETED and stamps the warranty once, identically for the
// customer online path and the technician cash path.
func SettleRequestPayment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req SettlePaymentRequest
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

	id := c.Param("id")
	updated, err := store.UpdateOne(store.GetRequestStore(), id, func(current models.MaintenanceRequest) (models.MaintenanceRequest, error) {
		mutation, err := actor.Authorize(lifecycle.PaymentSettlement{
			PaymentStatus: req.PaymentStatus,
			Method:        req.PaymentMethod,
		}, current)
		if err != nil {
			return current, err
		}
		return mutation.Apply(current)
	})
	if err != nil {
		respondMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// UpdateRequest handles PUT /api/v1/requests/:id - a general field edit. An
// edit whose result sets status COMPLETED and payment status PAID together
// is redirected into the settlement operation instead of being applied as a
// raw overwrite.
func UpdateRequest(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req EditRequestRequest
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

	id := c.Param("id")
	updated, err := store.UpdateOne(store.GetRequestStore(), id, func(current models.MaintenanceRequest) (models.MaintenanceRequest, error) {
		mutation := lifecycle.NewFieldEdit(applyEditFields(current, req))
		mutation, err := actor.Authorize(mutation, current)
		if err != nil {
			return current, err
		}
		return mutation.Apply(current)
	})
	if err != nil {
		respondMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// applyEditFields copies the provided edit fields onto a copy of current.
func applyEditFields(current models.MaintenanceRequest, req EditRequestRequest) models.MaintenanceRequest {
	out := current
	if req.ServiceType != nil {
		out.ServiceType = *req.ServiceType
	}
	if req.Description != nil {
		out.Description = *req.Description
	}
	if req.Latitude != nil {
		out.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		out.Longitude = *req.Longitude
	}
	if req.Address != nil {
		out.Address = *req.Address
	}
	if req.MapsURL != nil {
		out.MapsURL = req.MapsURL
	}
	if req.MediaRef != nil {
		out.MediaRef = req.MediaRef
	}
	if req.MediaType != nil {
		out.MediaType = req.MediaType
	}
	if req.EstimatedCost != nil {
		out.EstimatedCost = *req.EstimatedCost
	}
	if req.PartsRequested != nil {
		out.PartsRequested = *req.PartsRequested
	}
	if req.AppointmentTime != nil {
		out.AppointmentTime = req.AppointmentTime
	}
	if req.TechnicianName != nil {
		out.TechnicianName = req.TechnicianName
	}
	if req.Status != nil {
		out.Status = *req.Status
	}
	if req.PaymentStatus != nil {
		out.PaymentStatus = *req.PaymentStatus
	}
	if req.IncompleteReason != nil {
		out.IncompleteReason = req.IncompleteReason
	}
	if req.IncompleteNotes != nil {
		out.IncompleteNotes = req.IncompleteNotes
	}
	return out
}

// attachMediaURLs resolves presigned URLs for requests carrying media refs.
func attachMediaURLs(requests []models.MaintenanceRequest) {
	s3Service := services.GetS3Service()
	if s3Service == nil {
		return
	}
	for i := range requests {
		if requests[i].MediaRef == nil || *requests[i].MediaRef == "" {
			continue
		}
		url, err := s3Service.GetPresignedURL(*requests[i].MediaRef)
		if err != nil || url == "" {
			continue
		}
		requests[i].MediaURL = &url
	}
}
