// Package payments derives payment state and persists project payments.
package payments

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/models"
)

// DateLayout is the wire and storage format of a payment date.
const DateLayout = "2006-01-02"

// Derived is the state computed from a payment's amounts.
type Derived struct {
	PendingAmount float64
	Status        models.PaymentStatus
}

// Derive computes the pending amount and status for the given amounts.
func Derive(total, received float64) Derived {
	status := models.PaymentStatusPending
	switch {
	case received >= total:
		status = models.PaymentStatusCompleted
	case received > 0:
		status = models.PaymentStatusPartial
	}
	return Derived{PendingAmount: total - received, Status: status}
}

// MaxAmount is the largest value the decimal(14,2) amount columns hold.
const MaxAmount = 999_999_999_999.99

// ValidateAmounts rejects amounts outside 0 <= received <= total with total > 0,
// above MaxAmount, or with more than two decimal places.
func ValidateAmounts(total, received float64) error {
	if math.IsNaN(total) || total <= 0 {
		return apperr.Validation(apperr.MsgTotalAmountInvalid)
	}
	if math.IsNaN(received) || received < 0 {
		return apperr.Validation(apperr.MsgReceivedNegative)
	}
	if total > MaxAmount {
		return apperr.Validation(apperr.MsgAmountTooLarge)
	}
	if received > total {
		return apperr.Validation(apperr.MsgReceivedExceedsTotal)
	}
	if !hasCents(total) || !hasCents(received) {
		return apperr.Validation(apperr.MsgAmountPrecision)
	}
	return nil
}

// hasCents reports whether the shortest decimal form of v has at most two
// decimal places.
func hasCents(v float64) bool {
	formatted := strconv.FormatFloat(v, 'f', -1, 64)
	dot := strings.IndexByte(formatted, '.')
	return dot < 0 || len(formatted)-dot-1 <= 2
}

// ParseType normalizes a payment type. Empty input defaults to cash.
func ParseType(raw string) (models.PaymentType, error) {
	value := models.PaymentType(strings.ToLower(strings.TrimSpace(raw)))
	switch value {
	case "":
		return models.PaymentTypeCash, nil
	case models.PaymentTypeCash, models.PaymentTypeBank, models.PaymentTypeUPI, models.PaymentTypeCheque, models.PaymentTypeOther:
		return value, nil
	default:
		return "", apperr.Validation(apperr.MsgPaymentTypeInvalid)
	}
}

// ParseDate validates a YYYY-MM-DD date. Empty input yields the date of now.
func ParseDate(raw string, now time.Time) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.UTC().Format(DateLayout), nil
	}
	if len(raw) > len(DateLayout) {
		if parsed, errParse := time.Parse(time.RFC3339, raw); errParse == nil {
			return parsed.UTC().Format(DateLayout), nil
		}
	}
	parsed, errParse := time.Parse(DateLayout, raw)
	if errParse != nil {
		return "", apperr.Validation(apperr.MsgPaymentDateInvalid)
	}
	return parsed.Format(DateLayout), nil
}
