package lifecycle

import (
	"time"

	"github.com/kafaa-plus/kafaa-maintenance-api/models"
)

// Mutation is one permitted change to a single maintenance request. The
// closed set of variants is StatusChange, PaymentSettlement, FieldEdit and
// NoOp; the role access layer decides which variants an actor may apply.
type Mutation interface {
	Apply(req models.MaintenanceRequest) (models.MaintenanceRequest, error)
}

// StatusChange replaces the lifecycle status and nothing else.
type StatusChange struct {
	Status string
}

func (m StatusChange) Apply(req models.MaintenanceRequest) (models.MaintenanceRequest, error) {
	return ApplyStatus(req, m.Status)
}

// PaymentSettlement moves the payment machine, with the full settlement side
// effect when the target status is PAID. Now is the settlement clock; the
// zero value means wall-clock time.
type PaymentSettlement struct {
	PaymentStatus string
	Method        string
	Now           time.Time
}

func (m PaymentSettlement) Apply(req models.MaintenanceRequest) (models.MaintenanceRequest, error) {
	now := m.Now
	if now.IsZero() {
		now = time.Now()
	}
	return ApplyPayment(req, m.PaymentStatus, m.Method, now)
}

// FieldEdit replaces the descriptive, location, commercial, scheduling and
// attribution fields of a request. It can only be built through
// NewFieldEdit, and it never carries payment state: payment status, payment
// method and the warranty stamp always pass through from the stored request,
// so no edit path can reach PAID without the settlement side effect.
type FieldEdit struct {
	updated models.MaintenanceRequest
}

func (m FieldEdit) Apply(req models.MaintenanceRequest) (models.MaintenanceRequest, error) {
	if !models.IsValidStatus(m.updated.Status) {
		return req, &models.ValidationError{Field: "status", Value: m.updated.Status}
	}
	if m.updated.MediaType != nil && !models.IsValidMediaType(*m.updated.MediaType) {
		return req, &models.ValidationError{Field: "media_type", Value: *m.updated.MediaType}
	}

	out := m.updated
	out.ID = req.ID
	out.Position = req.Position
	out.CreatedAt = req.CreatedAt
	out.PaymentStatus = req.PaymentStatus
	out.PaymentMethod = req.PaymentMethod
	out.WarrantyExpiryDate = req.WarrantyExpiryDate
	return out, nil
}

// NoOp leaves the request untouched. Supervisor status updates are wired to
// this variant.
type NoOp struct{}

func (NoOp) Apply(req models.MaintenanceRequest) (models.MaintenanceRequest, error) {
	return req, nil
}

// NewFieldEdit builds the mutation for a general field update. An update
// whose result sets status COMPLETED and payment status PAID at the same
// time is not a raw overwrite: it is redirected into a PaymentSettlement,
// exactly as if the settlement operation had been invoked directly. The
// other edited fields are discarded on redirect; settlement bookkeeping
// must not diverge between the two paths.
func NewFieldEdit(updated models.MaintenanceRequest) Mutation {
	if updated.Status == models.StatusCompleted && updated.PaymentStatus == models.PaymentPaid {
		return PaymentSettlement{PaymentStatus: models.PaymentPaid}
	}
	return FieldEdit{updated: updated}
}
