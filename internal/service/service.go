package service

import (
	"context"

	"unistay-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, role domain.Role, in domain.SignupInput) (*domain.User, error)
	// Login returns a signed session token. clientKey identifies the client for rate limiting.
	Login(ctx context.Context, clientKey, username, password string) (string, *domain.User, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (domain.Caller, error)
	CreateSuperuser(ctx context.Context, in domain.SignupInput) (*domain.User, error)
}

type PropertyService interface {
	Search(ctx context.Context, f domain.PropertySearch) (*PropertyPage, error)
	GetProperty(ctx context.Context, id int32) (*domain.Property, error)
	// GetForOwner loads a listing for editing; only its owner or a superuser may.
	GetForOwner(ctx context.Context, caller domain.Caller, id int32) (*domain.Property, error)
	CreateProperty(ctx context.Context, caller domain.Caller, in domain.PropertyInput, image *domain.Upload) (*domain.Property, error)
	UpdateProperty(ctx context.Context, caller domain.Caller, id int32, in domain.PropertyInput, image *domain.Upload) (*domain.Property, error)
	ListAmenities(ctx context.Context) ([]domain.Amenity, error)
	AddAmenity(ctx context.Context, name string) (*domain.Amenity, error)
}

type BookingService interface {
	// BookingForm returns the property a student is about to book.
	BookingForm(ctx context.Context, caller domain.Caller, propertyID int32) (*domain.Property, error)
	CreateBooking(ctx context.Context, caller domain.Caller, propertyID int32, req domain.BookingRequest) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, caller domain.Caller, bookingID int32) (*domain.Booking, error)
	RejectBooking(ctx context.Context, caller domain.Caller, bookingID int32) (*domain.Booking, error)
	CancelBooking(ctx context.Context, caller domain.Caller, bookingID int32) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, caller domain.Caller, bookingID int32) (*domain.Booking, error)
	// MoveInNotice returns the booking with its occupants and the booked property.
	MoveInNotice(ctx context.Context, caller domain.Caller, bookingID int32) (*domain.Booking, *domain.Property, error)
}

type ChatService interface {
	// Thread loads the conversation and marks the caller's unread messages in it as read.
	Thread(ctx context.Context, caller domain.Caller, propertyID, otherUserID int32) (*domain.ChatThread, error)
	SendMessage(ctx context.Context, caller domain.Caller, propertyID, otherUserID int32, message string) (*domain.ChatMessage, error)
	RecentChats(ctx context.Context, caller domain.Caller) ([]domain.ConversationSummary, error)
}

type MaintenanceService interface {
	SubmitRequest(ctx context.Context, caller domain.Caller, in domain.MaintenanceInput) (*domain.MaintenanceRequest, error)
	UpdateRequest(ctx context.Context, caller domain.Caller, id int32, status domain.MaintenanceStatus, notes string) (*domain.MaintenanceRequest, error)
	DeleteRequest(ctx context.Context, caller domain.Caller, id int32) error
}

type PaymentService interface {
	FormOptions(ctx context.Context, caller domain.Caller) (*domain.PaymentOptions, error)
	CreatePayment(ctx context.Context, caller domain.Caller, in domain.PaymentInput) (*domain.PaymentRecord, error)
	GetPayment(ctx context.Context, id int32) (*domain.PaymentRecord, error)
	// ReceiptPDF renders the receipt; failures are *domain.ExternalToolError.
	ReceiptPDF(ctx context.Context, id int32) ([]byte, error)
}

type DashboardService interface {
	OwnerDashboard(ctx context.Context, caller domain.Caller) (*domain.OwnerDashboard, error)
	TenantDashboard(ctx context.Context, caller domain.Caller) (*domain.TenantDashboard, error)
}

type EmailService interface {
	SendBookingRequestNotification(ctx context.Context, ownerEmail, tenantName, propertyTitle string) error
	// SendBookingDecisionNotification tells the tenant the owner confirmed, rejected or completed the booking.
	SendBookingDecisionNotification(ctx context.Context, tenantEmail, propertyTitle string, status domain.BookingStatus) error
	SendBookingCancellationNotification(ctx context.Context, ownerEmail, tenantName, propertyTitle string) error
	SendPaymentReceipt(ctx context.Context, email, name, transactionID string, amountCents int64) error
}
