package service

import (
	"context"
	"time"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
	"unistay-backend/internal/repository"
)

type maintenanceService struct {
	maintenanceRepo repository.MaintenanceRepository
	bookingRepo     repository.BookingRepository
	propertyRepo    repository.PropertyRepository
	now             func() time.Time
}

func NewMaintenanceService(
	maintenanceRepo repository.MaintenanceRepository,
	bookingRepo repository.BookingRepository,
	propertyRepo repository.PropertyRepository,
) MaintenanceService {
	return &maintenanceService{
		maintenanceRepo: maintenanceRepo,
		bookingRepo:     bookingRepo,
		propertyRepo:    propertyRepo,
		now:             time.Now,
	}
}

func (s *maintenanceService) SubmitRequest(ctx context.Context, caller domain.Caller, in domain.MaintenanceInput) (*domain.MaintenanceRequest, error) {
	logger.EnterMethod("maintenanceService.SubmitRequest", "callerID", caller.UserID)

	if !caller.CanBook() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		logger.ExitMethodWithError("maintenanceService.SubmitRequest", err, "callerID", caller.UserID)
		return nil, err
	}

	bookings, err := s.bookingRepo.ListByTenant(ctx, caller.UserID, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		err := domain.NewValidationError("You need a confirmed booking to submit a maintenance request.")
		logger.ExitMethodWithError("maintenanceService.SubmitRequest", err, "callerID", caller.UserID)
		return nil, err
	}

	r := &domain.MaintenanceRequest{
		PropertyID:       bookings[0].PropertyID,
		PropertyTitle:    bookings[0].PropertyTitle,
		SubmittedBy:      caller.UserID,
		IssueTitle:       in.IssueTitle,
		IssueDescription: in.IssueDescription,
		Status:           domain.MaintenanceStatusPending,
		Priority:         in.Priority,
	}
	if err := s.maintenanceRepo.Create(ctx, r); err != nil {
		logger.ExitMethodWithError("maintenanceService.SubmitRequest", err, "callerID", caller.UserID)
		return nil, err
	}

	logger.ExitMethod("maintenanceService.SubmitRequest", "requestID", r.ID, "propertyID", r.PropertyID)
	return r, nil
}

func (s *maintenanceService) UpdateRequest(ctx context.Context, caller domain.Caller, id int32, status domain.MaintenanceStatus, notes string) (*domain.MaintenanceRequest, error) {
	logger.EnterMethod("maintenanceService.UpdateRequest", "requestID", id, "status", status)

	r, err := s.maintenanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.propertyRepo.GetByID(ctx, r.PropertyID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(caller) && !caller.IsSuperuser {
		logger.ExitMethodWithError("maintenanceService.UpdateRequest", domain.ErrForbidden, "requestID", id)
		return nil, domain.ErrForbidden
	}
	if !status.Valid() {
		return nil, (&domain.ValidationError{}).Add("status", "select a valid status").OrNil()
	}

	r.SetStatus(status, s.now())
	r.ResolutionNotes = notes
	if err := s.maintenanceRepo.Update(ctx, r); err != nil {
		logger.ExitMethodWithError("maintenanceService.UpdateRequest", err, "requestID", id)
		return nil, err
	}

	logger.ExitMethod("maintenanceService.UpdateRequest", "requestID", id, "status", r.Status)
	return r, nil
}

// DeleteRequest removes a request; only the tenant who submitted it may.
func (s *maintenanceService) DeleteRequest(ctx context.Context, caller domain.Caller, id int32) error {
	logger.EnterMethod("maintenanceService.DeleteRequest", "requestID", id, "callerID", caller.UserID)

	r, err := s.maintenanceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.IsAuthenticated() || r.SubmittedBy != caller.UserID {
		logger.ExitMethodWithError("maintenanceService.DeleteRequest", domain.ErrForbidden, "requestID", id)
		return domain.ErrForbidden
	}
	if err := s.maintenanceRepo.Delete(ctx, id, caller.UserID); err != nil {
		logger.ExitMethodWithError("maintenanceService.DeleteRequest", err, "requestID", id)
		return err
	}

	logger.ExitMethod("maintenanceService.DeleteRequest", "requestID", id)
	return nil
}
