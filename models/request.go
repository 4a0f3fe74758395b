package models

import (
	"fmt"
	"time"
)

// Lifecycle statuses for a maintenance request.
const (
	StatusPending     = "PENDING"
	StatusAccepted    = "ACCEPTED"
	StatusInProgress  = "IN_PROGRESS"
	StatusCompleted   = "COMPLETED"
	StatusCancelled   = "CANCELLED"
	StatusIncomplete  = "INCOMPLETE"
	StatusReactivated = "REACTIVATED"
)

// Payment statuses for a maintenance request.
const (
	PaymentUnpaid      = "UNPAID"
	PaymentCashPending = "CASH_PENDING"
	PaymentPaid        = "PAID"
)

// Media kinds accepted on a request.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// MaintenanceRequest represents one customer-initiated service case.
// The collection of requests is ordered newest-first; Position records a
// request's slot in that ordering and is maintained by the store.
type MaintenanceRequest struct {
	ID                 string     `gorm:"primaryKey" json:"id"`
	ServiceType        string     `gorm:"not null" json:"service_type"`
	Description        string     `gorm:"type:text;not null" json:"description"`
	MediaRef           *string    `json:"media_ref"`                    // S3 key for uploaded media
	MediaType          *string    `json:"media_type"`                   // "image" or "video"
	MediaURL           *string    `gorm:"-" json:"media_url,omitempty"` // computed field, presigned URL for media
	Latitude           float64    `json:"latitude"`
	Longitude          float64    `json:"longitude"`
	Address            string     `gorm:"not null" json:"address"`
	MapsURL            *string    `json:"maps_url"`
	EstimatedCost      float64    `gorm:"check:estimated_cost >= 0" json:"estimated_cost"`
	PaymentMethod      *string    `json:"payment_method"` // nullable until settlement, defaults to "CASH"
	PartsRequested     bool       `json:"parts_requested"`
	Status             string     `gorm:"not null;default:'PENDING'" json:"status"`
	PaymentStatus      string     `gorm:"not null;default:'UNPAID'" json:"payment_status"`
	AppointmentTime    *time.Time `json:"appointment_time"`
	WarrantyExpiryDate *time.Time `json:"warranty_expiry_date"` // stamped once at settlement, never recomputed
	TechnicianName     *string    `json:"technician_name"`
	CustomerName       *string    `json:"customer_name"`
	CustomerPhone      *string    `gorm:"index" json:"customer_phone"` // scoping key for customer visibility
	PhoneOrCode        *string    `json:"phone_or_code"`
	IncompleteReason   *string    `json:"incomplete_reason"` // populated only when status is INCOMPLETE
	IncompleteNotes    *string    `json:"incomplete_notes"`
	Position           int        `gorm:"not null;index" json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the MaintenanceRequest model
func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}

// IsValidStatus reports whether s is a known lifecycle status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusInProgress, StatusCompleted,
		StatusCancelled, StatusIncomplete, StatusReactivated:
		return true
	}
	return false
}

// IsValidPaymentStatus reports whether s is a known payment status.
func IsValidPaymentStatus(s string) bool {
	switch s {
	case PaymentUnpaid, PaymentCashPending, PaymentPaid:
		return true
	}
	return false
}

// IsValidMediaType reports whether s is a known media kind.
func IsValidMediaType(s string) bool {
	return s == MediaTypeImage || s == MediaTypeVideo
}

// ValidationError signals a malformed enum value on a request mutation.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}
