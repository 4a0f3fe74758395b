package lifecycle

import (
	"testing"
	"time"

	"github.com/kafaa-plus/kafaa-maintenance-api/models"
	"github.com/stretchr/testify/assert"
)

func baseRequest() models.MaintenanceRequest {
	phone := "0551234567"
	return models.MaintenanceRequest{
		ID:            "req-1",
		ServiceType:   "Plumbing",
		Description:   "Leaking kitchen sink",
		Address:       "12 King Fahd Road, Riyadh",
		EstimatedCost: 150,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
		CustomerPhone: &phone,
	}
}

func TestApplyStatus(t *testing.T) {
	tests := []struct {
		name      string
		from      string
		to        string
		expectErr bool
	}{
		{name: "pending to accepted", from: models.StatusPending, to: models.StatusAccepted},
		{name: "accepted to in progress", from: models.StatusAccepted, to: models.StatusInProgress},
		{name: "in progress to completed", from: models.StatusInProgress, to: models.StatusCompleted},
		{name: "pending to cancelled", from: models.StatusPending, to: models.StatusCancelled},
		{name: "in progress to incomplete", from: models.StatusInProgress, to: models.StatusIncomplete},
		{name: "incomplete to reactivated", from: models.StatusIncomplete, to: models.StatusReactivated},
		{name: "reactivated back to accepted", from: models.StatusReactivated, to: models.StatusAccepted},
		// The machine is deliberately permissive: field staff may need to
		// reopen or cancel at any point.
		{name: "completed back to pending", from: models.StatusCompleted, to: models.StatusPending},
		{name: "cancelled to in progress", from: models.StatusCancelled, to: models.StatusInProgress},
		{name: "unknown status rejected", from: models.StatusPending, to: "SHIPPED", expectErr: true},
		{name: "empty status rejected", from: models.StatusPending, to: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			req.Status = tt.from

			out, err := ApplyStatus(req, tt.to)
			if tt.expectErr {
				assert.Error(t, err)
				var valErr *models.ValidationError
				assert.ErrorAs(t, err, &valErr)
				assert.Equal(t, tt.from, out.Status, "status should be unchanged on rejection")
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.to, out.Status)
		})
	}
}

func TestApplyStatusNeverTouchesPaymentFields(t *testing.T) {
	method := "MADA"
	expiry := time.Date(2026, 11, 29, 0, 0, 0, 0, time.UTC)

	req := baseRequest()
	req.PaymentStatus = models.PaymentPaid
	req.PaymentMethod = &method
	req.WarrantyExpiryDate = &expiry

	out, err := ApplyStatus(req, models.StatusReactivated)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, out.PaymentStatus)
	assert.Equal(t, &method, out.PaymentMethod)
	assert.Equal(t, &expiry, out.WarrantyExpiryDate)
}

func TestApplyPaymentForcesCompletedStatus(t *testing.T) {
	for _, from := range []string{
		models.StatusPending,
		models.StatusAccepted,
		models.StatusInProgress,
		models.StatusCancelled,
		models.StatusIncomplete,
		models.StatusReactivated,
	} {
		t.Run(from, func(t *testing.T) {
			req := baseRequest()
			req.Status = from

			out, err := ApplyPayment(req, models.PaymentPaid, "", time.Now())
			assert.NoError(t, err)
			assert.Equal(t, models.StatusCompleted, out.Status, "settlement must force COMPLETED")
		})
	}
}

func TestApplyPaymentStampsWarrantyOnce(t *testing.T) {
	settledAt := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	req := baseRequest()
	assert.Nil(t, req.WarrantyExpiryDate)

	out, err := ApplyPayment(req, models.PaymentPaid, "", settledAt)
	assert.NoError(t, err)
	if assert.NotNil(t, out.WarrantyExpiryDate) {
		assert.Equal(t, settledAt.AddDate(0, 3, 0), *out.WarrantyExpiryDate,
			"warranty should expire three calendar months after settlement")
	}

	// A second settlement must not recompute the stamp.
	later := settledAt.AddDate(0, 1, 0)
	again, err := ApplyPayment(out, models.PaymentPaid, "", later)
	assert.NoError(t, err)
	assert.Equal(t, out.WarrantyExpiryDate, again.WarrantyExpiryDate, "warranty date is stamped exactly once")
}

func TestApplyPaymentNoWarrantyBeforePaid(t *testing.T) {
	req := baseRequest()

	out, err := ApplyPayment(req, models.PaymentCashPending, "", time.Now())
	assert.NoError(t, err)
	assert.Nil(t, out.WarrantyExpiryDate, "warranty is stamped only at settlement")
	assert.Equal(t, models.PaymentCashPending, out.PaymentStatus)
	assert.Equal(t, models.StatusPending, out.Status, "non-PAID payment updates leave status alone")
}

func TestApplyPaymentMethodResolution(t *testing.T) {
	stored := "STC_PAY"

	tests := []struct {
		name     string
		stored   *string
		explicit string
		want     string
	}{
		{name: "explicit method wins", stored: &stored, explicit: "MADA", want: "MADA"},
		{name: "stored method preserved", stored: &stored, explicit: "", want: "STC_PAY"},
		{name: "defaults to cash", stored: nil, explicit: "", want: CashPaymentMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			req.PaymentMethod = tt.stored

			out, err := ApplyPayment(req, models.PaymentPaid, tt.explicit, time.Now())
			assert.NoError(t, err)
			if assert.NotNil(t, out.PaymentMethod) {
				assert.Equal(t, tt.want, *out.PaymentMethod)
			}
		})
	}
}

func TestApplyPaymentRejectsUnknownStatus(t *testing.T) {
	req := baseRequest()

	out, err := ApplyPayment(req, "REFUNDED", "", time.Now())
	assert.Error(t, err)
	var valErr *models.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, models.PaymentUnpaid, out.PaymentStatus)
	assert.Nil(t, out.WarrantyExpiryDate)
}

func TestCashAndOnlinePathsConverge(t *testing.T) {
	settledAt := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	// Technician cash path: UNPAID -> CASH_PENDING -> PAID.
	cash := baseRequest()
	cash.Status = models.StatusInProgress
	cash, err := ApplyPayment(cash, models.PaymentCashPending, "", settledAt)
	assert.NoError(t, err)
	cash, err = ApplyPayment(cash, models.PaymentPaid, "", settledAt)
	assert.NoError(t, err)

	// Customer online path: UNPAID -> PAID directly.
	online := baseRequest()
	online.Status = models.StatusInProgress
	online, err = ApplyPayment(online, models.PaymentPaid, CashPaymentMethod, settledAt)
	assert.NoError(t, err)

	assert.Equal(t, cash.Status, online.Status)
	assert.Equal(t, cash.PaymentStatus, online.PaymentStatus)
	assert.Equal(t, *cash.PaymentMethod, *online.PaymentMethod)
	assert.Equal(t, *cash.WarrantyExpiryDate, *online.WarrantyExpiryDate)
}
