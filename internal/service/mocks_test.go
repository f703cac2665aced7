package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"unistay-backend/internal/domain"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockPropertyRepo
type MockPropertyRepo struct {
	mock.Mock
}

func (m *MockPropertyRepo) Create(ctx context.Context, p *domain.Property, amenityIDs []int32) error {
	args := m.Called(ctx, p, amenityIDs)
	return args.Error(0)
}
func (m *MockPropertyRepo) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) Update(ctx context.Context, p *domain.Property, amenityIDs []int32) error {
	args := m.Called(ctx, p, amenityIDs)
	return args.Error(0)
}
func (m *MockPropertyRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Property, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) Search(ctx context.Context, f domain.PropertySearch) ([]domain.Property, int32, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Property), args.Get(1).(int32), args.Error(2)
}
func (m *MockPropertyRepo) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Amenity), args.Error(1)
}
func (m *MockPropertyRepo) CreateAmenity(ctx context.Context, name string) (*domain.Amenity, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Amenity), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) CreateWithHold(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListOccupants(ctx context.Context, bookingID int32) ([]domain.AdditionalOccupant, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.AdditionalOccupant), args.Error(1)
}
func (m *MockBookingRepo) TransitionStatus(ctx context.Context, id int32, next domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByTenant(ctx context.Context, tenantID int32, statuses ...domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, tenantID, statuses)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByOwner(ctx context.Context, ownerID int32, statuses ...domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, ownerID, statuses)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// MockChatRepo
type MockChatRepo struct {
	mock.Mock
}

func (m *MockChatRepo) Create(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
func (m *MockChatRepo) ListThread(ctx context.Context, propertyID, userA, userB int32) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, propertyID, userA, userB)
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}
func (m *MockChatRepo) ListForUser(ctx context.Context, userID int32) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}
func (m *MockChatRepo) MarkThreadRead(ctx context.Context, propertyID, readerID, otherID int32) (int64, error) {
	args := m.Called(ctx, propertyID, readerID, otherID)
	return args.Get(0).(int64), args.Error(1)
}

// MockMaintenanceRepo
type MockMaintenanceRepo struct {
	mock.Mock
}

func (m *MockMaintenanceRepo) Create(ctx context.Context, r *domain.MaintenanceRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockMaintenanceRepo) GetByID(ctx context.Context, id int32) (*domain.MaintenanceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceRequest), args.Error(1)
}
func (m *MockMaintenanceRepo) Update(ctx context.Context, r *domain.MaintenanceRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockMaintenanceRepo) Delete(ctx context.Context, id, submittedBy int32) error {
	args := m.Called(ctx, id, submittedBy)
	return args.Error(0)
}
func (m *MockMaintenanceRepo) ListBySubmitter(ctx context.Context, userID int32) ([]domain.MaintenanceRequest, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.MaintenanceRequest), args.Error(1)
}
func (m *MockMaintenanceRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.MaintenanceRequest, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.MaintenanceRequest), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.PaymentRecord, at time.Time) error {
	args := m.Called(ctx, p, at)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.PaymentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRecord), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, tenantName, propertyTitle string) error {
	args := m.Called(ctx, ownerEmail, tenantName, propertyTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingDecisionNotification(ctx context.Context, tenantEmail, propertyTitle string, status domain.BookingStatus) error {
	args := m.Called(ctx, tenantEmail, propertyTitle, status)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCancellationNotification(ctx context.Context, ownerEmail, tenantName, propertyTitle string) error {
	args := m.Called(ctx, ownerEmail, tenantName, propertyTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendPaymentReceipt(ctx context.Context, email, name, transactionID string, amountCents int64) error {
	args := m.Called(ctx, email, name, transactionID, amountCents)
	return args.Error(0)
}

// MockImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, r, size, contentType)
	return args.Error(0)
}
func (m *MockImageStore) URL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockReceiptRenderer
type MockReceiptRenderer struct {
	mock.Mock
}

func (m *MockReceiptRenderer) Render(rec *domain.PaymentRecord) ([]byte, error) {
	args := m.Called(rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
