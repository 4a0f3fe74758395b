package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kafaa-plus/kafaa-maintenance-api/access"
	"github.com/kafaa-plus/kafaa-maintenance-api/config"
	"github.com/kafaa-plus/kafaa-maintenance-api/models"
	"github.com/kafaa-plus/kafaa-maintenance-api/store"
)

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// findVisibleRequest loads the request with the given id if the actor's role
// projection includes it. Visibility doubles as the conversation permission:
// a request you cannot see is one you cannot message on.
func findVisibleRequest(actor access.Actor, id string) (*models.MaintenanceRequest, error) {
	all, err := store.GetRequestStore().LoadAll()
	if err != nil {
		return nil, err
	}
	for _, r := range actor.Visible(all) {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

// SendMessage handles POST /api/v1/requests/:id/messages - sends a message
// on a maintenance request conversation.
func SendMessage(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	requestID := c.Param("id")
	if requestID == "" {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Request ID is required",
			},
		})
		return
	}

	request, err := findVisibleRequest(actor, requestID)
	if err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load maintenance request",
			},
		})
		return
	}
	if request == nil {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REQUEST_NOT_FOUND",
				"message": "Maintenance request not found",
			},
		})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	profile := actor.Profile()
	message := models.Message{
		RequestID:      request.ID,
		SenderName:     profile.Name,
		SenderRole:     profile.Role,
		SenderIdentity: profile.PhoneOrCode,
		Text:           req.Text,
	}

	db := config.GetDB()
	if err := db.Create(&message).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create message",
			},
		})
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}

// ListMessages handles GET /api/v1/requests/:id/messages - lists messages
// for a maintenance request conversation.
func ListMessages(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	requestID := c.Param("id")
	if requestID == "" {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Request ID is required",
			},
		})
		return
	}

	request, err := findVisibleRequest(actor, requestID)
	if err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load maintenance request",
			},
		})
		return
	}
	if request == nil {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REQUEST_NOT_FOUND",
				"message": "Maintenance request not found",
			},
		})
		return
	}

	var messages []models.Message
	db := config.GetDB()
	if err := db.Where("request_id = ?", request.ID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch messages",
			},
		})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}
