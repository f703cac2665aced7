package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/service"
)

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, role domain.Role, in domain.SignupInput) (*domain.User, error) {
	args := m.Called(ctx, role, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) Login(ctx context.Context, clientKey, username, password string) (string, *domain.User, error) {
	args := m.Called(ctx, clientKey, username, password)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}
func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
func (m *MockAuthService) Authenticate(ctx context.Context, token string) (domain.Caller, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Caller), args.Error(1)
}
func (m *MockAuthService) CreateSuperuser(ctx context.Context, in domain.SignupInput) (*domain.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockPropertyService
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Search(ctx context.Context, f domain.PropertySearch) (*service.PropertyPage, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PropertyPage), args.Error(1)
}
func (m *MockPropertyService) GetProperty(ctx context.Context, id int32) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) GetForOwner(ctx context.Context, caller domain.Caller, id int32) (*domain.Property, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) CreateProperty(ctx context.Context, caller domain.Caller, in domain.PropertyInput, image *domain.Upload) (*domain.Property, error) {
	args := m.Called(ctx, caller, in, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) UpdateProperty(ctx context.Context, caller domain.Caller, id int32, in domain.PropertyInput, image *domain.Upload) (*domain.Property, error) {
	args := m.Called(ctx, caller, id, in, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Amenity), args.Error(1)
}
func (m *MockPropertyService) AddAmenity(ctx context.Context, name string) (*domain.Amenity, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Amenity), args.Error(1)
}

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) BookingForm(ctx context.Context, caller domain.Caller, propertyID int32) (*domain.Property, error) {
	args := m.Called(ctx, caller, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockBookingService) CreateBooking(ctx context.Context, caller domain.Caller, propertyID int32, req domain.BookingRequest) (*domain.Booking, error) {
	args := m.Called(ctx, caller, propertyID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ConfirmBooking(ctx context.Context, caller domain.Caller, bookingID int32) (*domain.Booking, error) {
	return m.transition(m.Called(ctx, caller, bookingID))
}
func (m *MockBookingService) RejectBooking(ctx context.Context, caller domain.Caller, bookingID int32) (*domain.Booking, error) {
	return m.transition(m.Called(ctx, caller, bookingID))
}
func (m *MockBookingService) CancelBooking(ctx context.Context, caller domain.Caller, bookingID int32) (*domain.Booking, error) {
	return m.transition(m.Called(ctx, caller, bookingID))
}
func (m *MockBookingService) CompleteBooking(ctx context.Context, caller domain.Caller, bookingID int32) (*domain.Booking, error) {
	return m.transition(m.Called(ctx, caller, bookingID))
}
func (m *MockBookingService) transition(args mock.Arguments) (*domain.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) MoveInNotice(ctx context.Context, caller domain.Caller, bookingID int32) (*domain.Booking, *domain.Property, error) {
	args := m.Called(ctx, caller, bookingID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Booking), args.Get(1).(*domain.Property), args.Error(2)
}

// MockChatService
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Thread(ctx context.Context, caller domain.Caller, propertyID, otherUserID int32) (*domain.ChatThread, error) {
	args := m.Called(ctx, caller, propertyID, otherUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatThread), args.Error(1)
}
func (m *MockChatService) SendMessage(ctx context.Context, caller domain.Caller, propertyID, otherUserID int32, message string) (*domain.ChatMessage, error) {
	args := m.Called(ctx, caller, propertyID, otherUserID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatMessage), args.Error(1)
}
func (m *MockChatService) RecentChats(ctx context.Context, caller domain.Caller) ([]domain.ConversationSummary, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]domain.ConversationSummary), args.Error(1)
}

// MockMaintenanceService
type MockMaintenanceService struct {
	mock.Mock
}

func (m *MockMaintenanceService) SubmitRequest(ctx context.Context, caller domain.Caller, in domain.MaintenanceInput) (*domain.MaintenanceRequest, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceRequest), args.Error(1)
}
func (m *MockMaintenanceService) UpdateRequest(ctx context.Context, caller domain.Caller, id int32, status domain.MaintenanceStatus, notes string) (*domain.MaintenanceRequest, error) {
	args := m.Called(ctx, caller, id, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceRequest), args.Error(1)
}
func (m *MockMaintenanceService) DeleteRequest(ctx context.Context, caller domain.Caller, id int32) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

// MockPaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) FormOptions(ctx context.Context, caller domain.Caller) (*domain.PaymentOptions, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentOptions), args.Error(1)
}
func (m *MockPaymentService) CreatePayment(ctx context.Context, caller domain.Caller, in domain.PaymentInput) (*domain.PaymentRecord, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRecord), args.Error(1)
}
func (m *MockPaymentService) GetPayment(ctx context.Context, id int32) (*domain.PaymentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRecord), args.Error(1)
}
func (m *MockPaymentService) ReceiptPDF(ctx context.Context, id int32) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockDashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) OwnerDashboard(ctx context.Context, caller domain.Caller) (*domain.OwnerDashboard, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OwnerDashboard), args.Error(1)
}
func (m *MockDashboardService) TenantDashboard(ctx context.Context, caller domain.Caller) (*domain.TenantDashboard, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantDashboard), args.Error(1)
}
