package repository

import (
	"context"
	"time"

	"unistay-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property, amenityIDs []int32) error
	GetByID(ctx context.Context, id int32) (*domain.Property, error)
	Update(ctx context.Context, p *domain.Property, amenityIDs []int32) error
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Property, error)
	// Search returns one page of available properties and the total match count
	Search(ctx context.Context, f domain.PropertySearch) ([]domain.Property, int32, error)

	ListAmenities(ctx context.Context) ([]domain.Amenity, error)
	CreateAmenity(ctx context.Context, name string) (*domain.Amenity, error)
}

type BookingRepository interface {
	// CreateWithHold inserts the booking and its occupants and reserves
	// b.SpotsBooked spots, all in one transaction. It fails with a
	// ValidationError when the tenant already has an active booking or the
	// property lacks capacity.
	CreateWithHold(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	ListOccupants(ctx context.Context, bookingID int32) ([]domain.AdditionalOccupant, error)
	// TransitionStatus moves the booking to next, validating against the
	// persisted status and applying the spot delta in the same transaction.
	TransitionStatus(ctx context.Context, id int32, next domain.BookingStatus) (*domain.Booking, error)
	ListByTenant(ctx context.Context, tenantID int32, statuses ...domain.BookingStatus) ([]domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID int32, statuses ...domain.BookingStatus) ([]domain.Booking, error)
}

type ChatRepository interface {
	Create(ctx context.Context, m *domain.ChatMessage) error
	// ListThread returns the messages between two users about a property, oldest first
	ListThread(ctx context.Context, propertyID, userA, userB int32) ([]domain.ChatMessage, error)
	// ListForUser returns every message the user sent or received, newest first
	ListForUser(ctx context.Context, userID int32) ([]domain.ChatMessage, error)
	MarkThreadRead(ctx context.Context, propertyID, readerID, otherID int32) (int64, error)
}

type MaintenanceRepository interface {
	Create(ctx context.Context, r *domain.MaintenanceRequest) error
	GetByID(ctx context.Context, id int32) (*domain.MaintenanceRequest, error)
	Update(ctx context.Context, r *domain.MaintenanceRequest) error
	// Delete removes the request only if it was submitted by submittedBy
	Delete(ctx context.Context, id, submittedBy int32) error
	ListBySubmitter(ctx context.Context, userID int32) ([]domain.MaintenanceRequest, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.MaintenanceRequest, error)
}

type PaymentRepository interface {
	// Create inserts the record and backfills its transaction id in one transaction
	Create(ctx context.Context, p *domain.PaymentRecord, at time.Time) error
	GetByID(ctx context.Context, id int32) (*domain.PaymentRecord, error)
}
