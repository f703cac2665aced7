package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"unistay-backend/internal/domain"
)

func TestDashboardService_Owner(t *testing.T) {
	ctx := context.Background()
	pr, br, mr, cr := new(MockPropertyRepo), new(MockBookingRepo), new(MockMaintenanceRepo), new(MockChatRepo)
	chat := NewChatService(cr, pr, new(MockUserRepo), nil)
	svc := NewDashboardService(pr, br, mr, chat, nil)

	pr.On("ListByOwner", mock.Anything, int32(2)).Return([]domain.Property{{ID: 9}}, nil)
	br.On("ListByOwner", mock.Anything, int32(2), []domain.BookingStatus{domain.BookingStatusPending}).
		Return([]domain.Booking{{ID: 3}}, nil)
	br.On("ListByOwner", mock.Anything, int32(2), []domain.BookingStatus(nil)).
		Return([]domain.Booking{{ID: 3}, {ID: 4}}, nil)
	mr.On("ListByOwner", mock.Anything, int32(2)).Return([]domain.MaintenanceRequest{{ID: 1}}, nil)
	cr.On("ListForUser", mock.Anything, int32(2)).Return([]domain.ChatMessage{}, nil)

	d, err := svc.OwnerDashboard(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, d.Properties, 1)
	assert.Len(t, d.PendingBookings, 1)
	assert.Len(t, d.Bookings, 2)
	assert.Len(t, d.Maintenance, 1)
	assert.Empty(t, d.RecentChats)

	_, err = svc.OwnerDashboard(ctx, tenant)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDashboardService_Tenant(t *testing.T) {
	ctx := context.Background()

	t.Run("CurrentBooking", func(t *testing.T) {
		pr, br, mr, cr := new(MockPropertyRepo), new(MockBookingRepo), new(MockMaintenanceRepo), new(MockChatRepo)
		svc := NewDashboardService(pr, br, mr, NewChatService(cr, pr, new(MockUserRepo), nil), nil)

		br.On("ListByTenant", mock.Anything, int32(5), []domain.BookingStatus{domain.BookingStatusConfirmed}).
			Return([]domain.Booking{{ID: 3, Status: domain.BookingStatusConfirmed}}, nil)
		br.On("ListByTenant", mock.Anything, int32(5), []domain.BookingStatus(nil)).
			Return([]domain.Booking{{ID: 3}, {ID: 1}}, nil)
		mr.On("ListBySubmitter", mock.Anything, int32(5)).Return([]domain.MaintenanceRequest{}, nil)
		cr.On("ListForUser", mock.Anything, int32(5)).Return([]domain.ChatMessage{}, nil)

		d, err := svc.TenantDashboard(ctx, tenant)
		require.NoError(t, err)
		require.NotNil(t, d.CurrentBooking)
		assert.Equal(t, int32(3), d.CurrentBooking.ID)
		assert.Len(t, d.Bookings, 2)
	})

	t.Run("FailureCancelsDashboard", func(t *testing.T) {
		pr, br, mr, cr := new(MockPropertyRepo), new(MockBookingRepo), new(MockMaintenanceRepo), new(MockChatRepo)
		svc := NewDashboardService(pr, br, mr, NewChatService(cr, pr, new(MockUserRepo), nil), nil)

		br.On("ListByTenant", mock.Anything, int32(5), mock.Anything).Return([]domain.Booking{}, nil)
		mr.On("ListBySubmitter", mock.Anything, int32(5)).Return([]domain.MaintenanceRequest{}, errors.New("db down"))
		cr.On("ListForUser", mock.Anything, int32(5)).Return([]domain.ChatMessage{}, nil)

		_, err := svc.TenantDashboard(ctx, tenant)
		assert.EqualError(t, err, "db down")
	})
}
