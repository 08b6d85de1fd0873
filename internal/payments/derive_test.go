package payments

import (
	"testing"
	"time"

	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	cases := []struct {
		total, received float64
		pending         float64
		status          models.PaymentStatus
	}{
		{1000, 0, 1000, models.PaymentStatusPending},
		{1000, 400, 600, models.PaymentStatusPartial},
		{1000, 999.5, 0.5, models.PaymentStatusPartial},
		{1000, 1000, 0, models.PaymentStatusCompleted},
		{0.01, 0.01, 0, models.PaymentStatusCompleted},
	}
	for _, tc := range cases {
		got := Derive(tc.total, tc.received)
		assert.InDelta(t, tc.pending, got.PendingAmount, 1e-9, "total=%v received=%v", tc.total, tc.received)
		assert.Equal(t, tc.status, got.Status, "total=%v received=%v", tc.total, tc.received)
	}
}

func TestDeriveInvariantGrid(t *testing.T) {
	for total := 1.0; total <= 50; total += 7 {
		for received := 0.0; received <= total; received += 3 {
			got := Derive(total, received)
			assert.InDelta(t, total-received, got.PendingAmount, 1e-9)
			switch {
			case received >= total:
				assert.Equal(t, models.PaymentStatusCompleted, got.Status)
			case received > 0:
				assert.Equal(t, models.PaymentStatusPartial, got.Status)
			default:
				assert.Equal(t, models.PaymentStatusPending, got.Status)
			}
		}
	}
}

func TestValidateAmounts(t *testing.T) {
	require.NoError(t, ValidateAmounts(100, 0))
	require.NoError(t, ValidateAmounts(100, 100))
	require.NoError(t, ValidateAmounts(12.34, 0.1))
	require.NoError(t, ValidateAmounts(MaxAmount, MaxAmount))

	cases := map[string][2]float64{
		apperr.MsgTotalAmountInvalid:   {0, 0},
		apperr.MsgReceivedNegative:     {100, -1},
		apperr.MsgReceivedExceedsTotal: {100, 101},
		apperr.MsgAmountTooLarge:       {1e13, 0},
		apperr.MsgAmountPrecision:      {0.004, 0},
	}
	for msg, amounts := range cases {
		err := ValidateAmounts(amounts[0], amounts[1])
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
		assert.Equal(t, msg, apperr.MessageOf(err, ""))
	}
}

func TestParseType(t *testing.T) {
	got, err := ParseType("")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentTypeCash, got)

	got, err = ParseType(" UPI ")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentTypeUPI, got)

	_, err = ParseType("crypto")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)

	got, err := ParseDate("", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", got)

	got, err = ParseDate("2024-01-31", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", got)

	got, err = ParseDate("2024-01-31T10:00:00Z", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", got)

	_, err = ParseDate("31/01/2024", now)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
