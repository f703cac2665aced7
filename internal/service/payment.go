package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
	"unistay-backend/internal/repository"
)

// ReceiptRenderer turns a payment record into a printable document.
type ReceiptRenderer interface {
	Render(rec *domain.PaymentRecord) ([]byte, error)
}

var payableStatuses = []domain.BookingStatus{domain.BookingStatusConfirmed, domain.BookingStatusCompleted}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	bookingRepo repository.BookingRepository
	emailSvc    EmailService
	renderer    ReceiptRenderer
	now         func() time.Time
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	bookingRepo repository.BookingRepository,
	emailSvc EmailService,
	renderer ReceiptRenderer,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		emailSvc:    emailSvc,
		renderer:    renderer,
		now:         time.Now,
	}
}

func (s *paymentService) FormOptions(ctx context.Context, caller domain.Caller) (*domain.PaymentOptions, error) {
	receivers, err := s.userRepo.ListByRole(ctx, domain.RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to list receivers: %w", err)
	}
	bookings, err := s.payableBookings(ctx, caller)
	if err != nil {
		return nil, err
	}

	opts := &domain.PaymentOptions{Receivers: receivers, Bookings: bookings, Methods: domain.PaymentMethods}
	if caller.IsAuthenticated() {
		if u, err := s.userRepo.GetByID(ctx, caller.UserID); err == nil {
			opts.Initial = domain.PaymentInput{FullName: u.FullName, Email: u.Email, PhoneNumber: u.PhoneNumber}
		}
	}
	return opts, nil
}

// payableBookings lists the bookings the caller may attach a payment to.
func (s *paymentService) payableBookings(ctx context.Context, caller domain.Caller) ([]domain.Booking, error) {
	var (
		bookings []domain.Booking
		err      error
	)
	switch {
	case !caller.IsAuthenticated():
		return nil, nil
	case caller.Role == domain.RoleStudent:
		bookings, err = s.bookingRepo.ListByTenant(ctx, caller.UserID, payableStatuses...)
	default:
		bookings, err = s.bookingRepo.ListByOwner(ctx, caller.UserID, payableStatuses...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *paymentService) CreatePayment(ctx context.Context, caller domain.Caller, in domain.PaymentInput) (*domain.PaymentRecord, error) {
	logger.EnterMethod("paymentService.CreatePayment", "callerID", caller.UserID, "amountCents", in.AmountCents)

	if err := s.validate(ctx, caller, in); err != nil {
		logger.ExitMethodWithError("paymentService.CreatePayment", err, "callerID", caller.UserID)
		return nil, err
	}

	rec := &domain.PaymentRecord{
		BookingID:     in.BookingID,
		ReceiverID:    in.ReceiverID,
		FullName:      strings.TrimSpace(in.FullName),
		Email:         strings.TrimSpace(in.Email),
		PhoneNumber:   strings.TrimSpace(in.PhoneNumber),
		AmountCents:   in.AmountCents,
		PaymentMethod: in.PaymentMethod,
	}
	if caller.IsAuthenticated() {
		id := caller.UserID
		rec.UserID = &id
	}
	if err := s.paymentRepo.Create(ctx, rec, s.now()); err != nil {
		logger.ExitMethodWithError("paymentService.CreatePayment", err, "callerID", caller.UserID)
		return nil, err
	}

	if err := s.emailSvc.SendPaymentReceipt(ctx, rec.Email, rec.FullName, rec.TransactionID, rec.AmountCents); err != nil {
		logger.WarnContext(ctx, "Failed to send payment receipt", "paymentID", rec.ID, "error", err)
	}

	logger.ExitMethod("paymentService.CreatePayment", "paymentID", rec.ID, "transactionID", rec.TransactionID)
	return rec, nil
}

func (s *paymentService) validate(ctx context.Context, caller domain.Caller, in domain.PaymentInput) error {
	v := &domain.ValidationError{}
	if err := in.Validate(); err != nil && !errors.As(err, &v) {
		return err
	}

	if in.BookingID != nil {
		allowed, err := s.payableBookings(ctx, caller)
		if err != nil {
			return err
		}
		found := false
		for _, b := range allowed {
			if b.ID == *in.BookingID {
				found = true
				break
			}
		}
		if !found {
			v.Add("booking", "select a valid booking")
		}
	}
	if in.ReceiverID != nil {
		receiver, err := s.userRepo.GetByID(ctx, *in.ReceiverID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			v.Add("receiver_of_payment", "select a valid receiver")
		case err != nil:
			return err
		case receiver.Role != domain.RoleOwner:
			v.Add("receiver_of_payment", "select a valid receiver")
		}
	}
	return v.OrNil()
}

func (s *paymentService) GetPayment(ctx context.Context, id int32) (*domain.PaymentRecord, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

func (s *paymentService) ReceiptPDF(ctx context.Context, id int32) ([]byte, error) {
	rec, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.ExternalServiceCall("receipt", "Render", "paymentID", id)
	pdf, err := s.renderer.Render(rec)
	logger.ExternalServiceResult("receipt", "Render", err, "paymentID", id, "bytes", len(pdf))
	if err != nil {
		return nil, &domain.ExternalToolError{Tool: "pdf renderer", Err: err}
	}
	return pdf, nil
}
