package receipt

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unistay-backend/internal/domain"
)

func TestPDFRenderer_Render(t *testing.T) {
	rec := &domain.PaymentRecord{
		ID:            7,
		FullName:      "Nur Aina Binti Ahmad",
		Email:         "aina@example.com",
		PhoneNumber:   "0123456789",
		AmountCents:   120000,
		PaymentMethod: "Bank Transfer",
		PaymentDate:   time.Date(2026, 5, 4, 13, 2, 3, 0, time.UTC),
		TransactionID: "20260504130203123456_7_42",
		BookingTitle:  "Studio near UniKL MIIT",
		ReceiverName:  "Encik Lim",
	}

	out, err := NewPDFRenderer().Render(rec)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Greater(t, len(out), 500)
}

func TestPDFRenderer_RenderNil(t *testing.T) {
	_, err := NewPDFRenderer().Render(nil)
	assert.Error(t, err)
}
