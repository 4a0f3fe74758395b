// Package lifecycle implements the pure transition functions governing a
// maintenance request's status and payment status, and the derived fields a
// settlement implies (warranty expiry, payment method fallback). Functions
// here never touch storage; they take a request value and return a new one.
package lifecycle

import (
	"time"

	"github.com/kafaa-plus/kafaa-maintenance-api/models"
)

// CashPaymentMethod is the designation stored when payment settles without
// an explicit method.
const CashPaymentMethod = "CASH"

// WarrantyMonths is the warranty period stamped at settlement.
const WarrantyMonths = 3

// ApplyStatus returns a copy of req with its lifecycle status replaced.
// Any known status may follow any other; field staff need to reopen or
// cancel at any point, so no known-to-known transition is rejected. Unknown
// status values are the one rejected input. Payment fields, payment method
// and the warranty stamp are never touched here.
func ApplyStatus(req models.MaintenanceRequest, newStatus string) (models.MaintenanceRequest, error) {
	if !models.IsValidStatus(newStatus) {
		return req, &models.ValidationError{Field: "status", Value: newStatus}
	}
	req.Status = newStatus
	return req, nil
}

// ApplyPayment returns a copy of req with its payment status replaced. The
// payment method resolves as: explicit method, else previously stored
// method, else the cash designation.
//
// Marking the request PAID is a settlement and additionally, atomically with
// the payment update: forces the lifecycle status to COMPLETED regardless of
// its prior value, and stamps the warranty expiry at now plus three calendar
// months if no stamp exists yet. Applying PAID a second time changes nothing
// derived: the warranty date is never recomputed. The same code path serves
// the customer online-payment flow and the technician cash-confirmation
// flow, so both converge on identical derived state.
func ApplyPayment(req models.MaintenanceRequest, paymentStatus, method string, now time.Time) (models.MaintenanceRequest, error) {
	if !models.IsValidPaymentStatus(paymentStatus) {
		return req, &models.ValidationError{Field: "payment_status", Value: paymentStatus}
	}

	req.PaymentStatus = paymentStatus

	switch {
	case method != "":
		req.PaymentMethod = &method
	case req.PaymentMethod != nil:
		// keep the previously stored method
	default:
		m := CashPaymentMethod
		req.PaymentMethod = &m
	}

	if paymentStatus == models.PaymentPaid {
		req.Status = models.StatusCompleted
		if req.WarrantyExpiryDate == nil {
			expiry := now.AddDate(0, WarrantyMonths, 0)
			req.WarrantyExpiryDate = &expiry
		}
	}

	return req, nil
}
