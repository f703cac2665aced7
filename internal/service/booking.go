package service

import (
	"context"
	"time"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
	"unistay-backend/internal/repository"
)

type bookingService struct {
	bookingRepo  repository.BookingRepository
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
	emailSvc     EmailService
	now          func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		emailSvc:     emailSvc,
		now:          time.Now,
	}
}

func (s *bookingService) BookingForm(ctx context.Context, caller domain.Caller, propertyID int32) (*domain.Property, error) {
	if !caller.CanBook() {
		return nil, domain.ErrForbidden
	}
	return s.propertyRepo.GetByID(ctx, propertyID)
}

func (s *bookingService) CreateBooking(ctx context.Context, caller domain.Caller, propertyID int32, req domain.BookingRequest) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CreateBooking", "tenantID", caller.UserID, "propertyID", propertyID, "spots", req.Spots())

	if !caller.CanBook() {
		logger.ExitMethodWithError("bookingService.CreateBooking", domain.ErrForbidden, "tenantID", caller.UserID)
		return nil, domain.ErrForbidden
	}
	p, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "propertyID", propertyID)
		return nil, err
	}
	if err := req.Validate(p, s.now()); err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "propertyID", propertyID)
		return nil, err
	}

	b := &domain.Booking{
		PropertyID:             p.ID,
		PropertyTitle:          p.Title,
		OwnerID:                p.OwnerID,
		TenantID:               caller.UserID,
		TenantUsername:         caller.Username,
		StartDate:              req.StartDate,
		SpotsBooked:            req.Spots(),
		FullName:               req.FullName,
		Gender:                 req.Gender,
		StudentIDNumber:        req.StudentIDNumber,
		Email:                  req.Email,
		CurrentAddress:         req.CurrentAddress,
		UniversityName:         req.UniversityName,
		ExpectedDurationOfStay: req.ExpectedDurationOfStay,
		AdditionalOccupants:    req.Occupants,
	}
	if err := s.bookingRepo.CreateWithHold(ctx, b); err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "propertyID", propertyID)
		return nil, err
	}

	if owner, err := s.userRepo.GetByID(ctx, p.OwnerID); err == nil {
		s.notify(ctx, "booking request", s.emailSvc.SendBookingRequestNotification(ctx, owner.Email, b.FullName, p.Title))
	}

	logger.ExitMethod("bookingService.CreateBooking", "bookingID", b.ID)
	return b, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, caller domain.Caller, bookingID int32) (*domain.Booking, error) {
	return s.ownerTransition(ctx, caller, bookingID, domain.BookingStatusConfirmed)
}

func (s *bookingService) RejectBooking(ctx context.Context, caller domain.Caller, bookingID int32) (*domain.Booking, error) {
	return s.ownerTransition(ctx, caller, bookingID, domain.BookingStatusRejected)
}

func (s *bookingService) CompleteBooking(ctx context.Context, caller domain.Caller, bookingID int32) (*domain.Booking, error) {
	return s.ownerTransition(ctx, caller, bookingID, domain.BookingStatusCompleted)
}

// ownerTransition moves a booking on behalf of the property's owner and tells the tenant.
func (s *bookingService) ownerTransition(ctx context.Context, caller domain.Caller, bookingID int32, next domain.BookingStatus) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.ownerTransition", "bookingID", bookingID, "callerID", caller.UserID, "next", next)

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.ownerTransition", err, "bookingID", bookingID)
		return nil, err
	}
	if !caller.IsAuthenticated() || (b.OwnerID != caller.UserID && !caller.IsSuperuser) {
		logger.ExitMethodWithError("bookingService.ownerTransition", domain.ErrForbidden, "bookingID", bookingID)
		return nil, domain.ErrForbidden
	}

	updated, err := s.bookingRepo.TransitionStatus(ctx, bookingID, next)
	if err != nil {
		logger.ExitMethodWithError("bookingService.ownerTransition", err, "bookingID", bookingID)
		return nil, err
	}

	s.notify(ctx, "booking decision",
		s.emailSvc.SendBookingDecisionNotification(ctx, updated.Email, updated.PropertyTitle, updated.Status))

	logger.ExitMethod("bookingService.ownerTransition", "bookingID", bookingID, "status", updated.Status)
	return updated, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, caller domain.Caller, bookingID int32) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CancelBooking", "bookingID", bookingID, "callerID", caller.UserID)

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CancelBooking", err, "bookingID", bookingID)
		return nil, err
	}
	if !caller.IsAuthenticated() || (b.TenantID != caller.UserID && !caller.IsSuperuser) {
		logger.ExitMethodWithError("bookingService.CancelBooking", domain.ErrForbidden, "bookingID", bookingID)
		return nil, domain.ErrForbidden
	}

	updated, err := s.bookingRepo.TransitionStatus(ctx, bookingID, domain.BookingStatusCancelled)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CancelBooking", err, "bookingID", bookingID)
		return nil, err
	}

	if owner, err := s.userRepo.GetByID(ctx, updated.OwnerID); err == nil {
		s.notify(ctx, "booking cancellation",
			s.emailSvc.SendBookingCancellationNotification(ctx, owner.Email, updated.FullName, updated.PropertyTitle))
	}

	logger.ExitMethod("bookingService.CancelBooking", "bookingID", bookingID)
	return updated, nil
}

func (s *bookingService) MoveInNotice(ctx context.Context, caller domain.Caller, bookingID int32) (*domain.Booking, *domain.Property, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if !caller.IsAuthenticated() || (b.TenantID != caller.UserID && !caller.IsSuperuser) {
		return nil, nil, domain.ErrForbidden
	}
	if b.AdditionalOccupants, err = s.bookingRepo.ListOccupants(ctx, bookingID); err != nil {
		return nil, nil, err
	}
	p, err := s.propertyRepo.GetByID(ctx, b.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	return b, p, nil
}

// notify logs a failed notification; delivery never affects the booking outcome.
func (s *bookingService) notify(ctx context.Context, kind string, err error) {
	if err != nil {
		logger.WarnContext(ctx, "Failed to send notification", "kind", kind, "error", err)
	}
}
