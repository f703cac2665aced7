package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"unistay-backend/internal/domain"
)

type paymentMocks struct {
	payments *MockPaymentRepo
	users    *MockUserRepo
	bookings *MockBookingRepo
	email    *MockEmailService
	renderer *MockReceiptRenderer
}

func newTestPaymentService() (*paymentService, paymentMocks) {
	m := paymentMocks{
		payments: new(MockPaymentRepo),
		users:    new(MockUserRepo),
		bookings: new(MockBookingRepo),
		email:    new(MockEmailService),
		renderer: new(MockReceiptRenderer),
	}
	svc := NewPaymentService(m.payments, m.users, m.bookings, m.email, m.renderer).(*paymentService)
	svc.now = func() time.Time { return testNow }
	return svc, m
}

func int32Ptr(v int32) *int32 { return &v }

func TestPaymentService_FormOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("Guest", func(t *testing.T) {
		svc, m := newTestPaymentService()
		m.users.On("ListByRole", ctx, domain.RoleOwner).Return([]domain.User{{ID: 2}}, nil)

		opts, err := svc.FormOptions(ctx, domain.Caller{})
		require.NoError(t, err)
		assert.Len(t, opts.Receivers, 1)
		assert.Empty(t, opts.Bookings)
		assert.Equal(t, domain.PaymentMethods, opts.Methods)
		assert.Empty(t, opts.Initial.Email)
	})

	t.Run("StudentPrefilled", func(t *testing.T) {
		svc, m := newTestPaymentService()
		m.users.On("ListByRole", ctx, domain.RoleOwner).Return([]domain.User{{ID: 2}}, nil)
		m.bookings.On("ListByTenant", ctx, int32(5), payableStatuses).Return([]domain.Booking{{ID: 3}}, nil)
		m.users.On("GetByID", ctx, int32(5)).Return(&domain.User{ID: 5, FullName: "Aina", Email: "aina@example.com", PhoneNumber: "0123"}, nil)

		opts, err := svc.FormOptions(ctx, tenant)
		require.NoError(t, err)
		assert.Len(t, opts.Bookings, 1)
		assert.Equal(t, "Aina", opts.Initial.FullName)
		assert.Equal(t, "0123", opts.Initial.PhoneNumber)
	})

	t.Run("OwnerSeesOwnedBookings", func(t *testing.T) {
		svc, m := newTestPaymentService()
		m.users.On("ListByRole", ctx, domain.RoleOwner).Return([]domain.User{}, nil)
		m.bookings.On("ListByOwner", ctx, int32(2), payableStatuses).Return([]domain.Booking{{ID: 3}, {ID: 4}}, nil)
		m.users.On("GetByID", ctx, int32(2)).Return(nil, domain.ErrNotFound)

		opts, err := svc.FormOptions(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, opts.Bookings, 2)
	})
}

func TestPaymentService_CreatePayment(t *testing.T) {
	ctx := context.Background()
	input := func() domain.PaymentInput {
		return domain.PaymentInput{FullName: "Aina", Email: "aina@example.com", PhoneNumber: "0123", AmountCents: 120000, PaymentMethod: "Cash"}
	}

	t.Run("GuestPayment", func(t *testing.T) {
		svc, m := newTestPaymentService()
		m.payments.On("Create", ctx, mock.MatchedBy(func(p *domain.PaymentRecord) bool { return p.UserID == nil }), testNow).
			Run(func(args mock.Arguments) {
				p := args.Get(1).(*domain.PaymentRecord)
				p.ID = 7
				p.TransactionID = domain.NewTransactionID(testNow, 7, nil)
			}).
			Return(nil)
		m.email.On("SendPaymentReceipt", ctx, "aina@example.com", "Aina", mock.Anything, int64(120000)).Return(errors.New("mail down"))

		rec, err := svc.CreatePayment(ctx, domain.Caller{}, input())
		require.NoError(t, err)
		assert.Equal(t, int32(7), rec.ID)
		assert.Contains(t, rec.TransactionID, "_7_GUEST")
	})

	t.Run("SignedInCallerRecorded", func(t *testing.T) {
		svc, m := newTestPaymentService()
		m.bookings.On("ListByTenant", ctx, int32(5), payableStatuses).Return([]domain.Booking{{ID: 3}}, nil)
		m.users.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2, Role: domain.RoleOwner}, nil)
		m.payments.On("Create", ctx, mock.MatchedBy(func(p *domain.PaymentRecord) bool {
			return p.UserID != nil && *p.UserID == 5 && *p.BookingID == 3 && *p.ReceiverID == 2
		}), testNow).Return(nil)
		m.email.On("SendPaymentReceipt", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		in := input()
		in.BookingID = int32Ptr(3)
		in.ReceiverID = int32Ptr(2)
		_, err := svc.CreatePayment(ctx, tenant, in)
		require.NoError(t, err)
		m.payments.AssertExpectations(t)
	})

	t.Run("ForeignBookingAndNonOwnerReceiver", func(t *testing.T) {
		svc, m := newTestPaymentService()
		m.bookings.On("ListByTenant", ctx, int32(5), payableStatuses).Return([]domain.Booking{{ID: 3}}, nil)
		m.users.On("GetByID", ctx, int32(6)).Return(&domain.User{ID: 6, Role: domain.RoleStudent}, nil)

		in := input()
		in.BookingID = int32Ptr(99)
		in.ReceiverID = int32Ptr(6)
		_, err := svc.CreatePayment(ctx, tenant, in)

		var v *domain.ValidationError
		require.ErrorAs(t, err, &v)
		assert.Contains(t, v.Fields, "booking")
		assert.Contains(t, v.Fields, "receiver_of_payment")
		m.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InputAndBookingErrorsReportedTogether", func(t *testing.T) {
		svc, m := newTestPaymentService()
		m.bookings.On("ListByTenant", ctx, int32(5), payableStatuses).Return([]domain.Booking{{ID: 3}}, nil)

		in := input()
		in.AmountCents = 0
		in.BookingID = int32Ptr(99)
		_, err := svc.CreatePayment(ctx, tenant, in)

		var v *domain.ValidationError
		require.ErrorAs(t, err, &v)
		assert.Contains(t, v.Fields, "amount")
		assert.Contains(t, v.Fields, "booking")
		m.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		svc, m := newTestPaymentService()

		in := input()
		in.AmountCents = 0
		_, err := svc.CreatePayment(ctx, domain.Caller{}, in)

		var v *domain.ValidationError
		require.ErrorAs(t, err, &v)
		assert.Contains(t, v.Fields, "amount")
		m.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPaymentService_ReceiptPDF(t *testing.T) {
	ctx := context.Background()
	rec := &domain.PaymentRecord{ID: 7, TransactionID: "20260504100000000000_7_GUEST"}

	t.Run("Success", func(t *testing.T) {
		svc, m := newTestPaymentService()
		m.payments.On("GetByID", ctx, int32(7)).Return(rec, nil)
		m.renderer.On("Render", rec).Return([]byte("%PDF-1.3"), nil)

		pdf, err := svc.ReceiptPDF(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.3"), pdf)
	})

	t.Run("RendererFailure", func(t *testing.T) {
		svc, m := newTestPaymentService()
		m.payments.On("GetByID", ctx, int32(7)).Return(rec, nil)
		m.renderer.On("Render", rec).Return(nil, errors.New("font missing"))

		_, err := svc.ReceiptPDF(ctx, 7)
		var toolErr *domain.ExternalToolError
		require.ErrorAs(t, err, &toolErr)
		assert.Equal(t, "pdf renderer", toolErr.Tool)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, m := newTestPaymentService()
		m.payments.On("GetByID", ctx, int32(8)).Return(nil, domain.ErrNotFound)

		_, err := svc.ReceiptPDF(ctx, 8)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		m.renderer.AssertNotCalled(t, "Render", mock.Anything)
	})
}
