package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/repository"
	"unistay-backend/internal/storage"
)

type dashboardService struct {
	propertyRepo    repository.PropertyRepository
	bookingRepo     repository.BookingRepository
	maintenanceRepo repository.MaintenanceRepository
	chatSvc         ChatService
	images          storage.ImageStore
}

func NewDashboardService(
	propertyRepo repository.PropertyRepository,
	bookingRepo repository.BookingRepository,
	maintenanceRepo repository.MaintenanceRepository,
	chatSvc ChatService,
	images storage.ImageStore,
) DashboardService {
	return &dashboardService{
		propertyRepo:    propertyRepo,
		bookingRepo:     bookingRepo,
		maintenanceRepo: maintenanceRepo,
		chatSvc:         chatSvc,
		images:          images,
	}
}

func (s *dashboardService) OwnerDashboard(ctx context.Context, caller domain.Caller) (*domain.OwnerDashboard, error) {
	if !caller.CanListProperties() {
		return nil, domain.ErrForbidden
	}

	d := &domain.OwnerDashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		props, err := s.propertyRepo.ListByOwner(gctx, caller.UserID)
		for i := range props {
			props[i].MainImageURL = imageURL(gctx, s.images, props[i].MainImageKey)
		}
		d.Properties = props
		return err
	})
	g.Go(func() (err error) {
		d.PendingBookings, err = s.bookingRepo.ListByOwner(gctx, caller.UserID, domain.BookingStatusPending)
		return err
	})
	g.Go(func() (err error) {
		d.Bookings, err = s.bookingRepo.ListByOwner(gctx, caller.UserID)
		return err
	})
	g.Go(func() (err error) {
		d.Maintenance, err = s.maintenanceRepo.ListByOwner(gctx, caller.UserID)
		return err
	})
	g.Go(func() (err error) {
		d.RecentChats, err = s.chatSvc.RecentChats(gctx, caller)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *dashboardService) TenantDashboard(ctx context.Context, caller domain.Caller) (*domain.TenantDashboard, error) {
	if !caller.CanBook() {
		return nil, domain.ErrForbidden
	}

	d := &domain.TenantDashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		confirmed, err := s.bookingRepo.ListByTenant(gctx, caller.UserID, domain.BookingStatusConfirmed)
		if len(confirmed) > 0 {
			d.CurrentBooking = &confirmed[0]
		}
		return err
	})
	g.Go(func() (err error) {
		d.Bookings, err = s.bookingRepo.ListByTenant(gctx, caller.UserID)
		return err
	})
	g.Go(func() (err error) {
		d.Maintenance, err = s.maintenanceRepo.ListBySubmitter(gctx, caller.UserID)
		return err
	})
	g.Go(func() (err error) {
		d.RecentChats, err = s.chatSvc.RecentChats(gctx, caller)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}
