package postgres

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.PropertyRepository
	repository.BookingRepository
	repository.ChatRepository
	repository.MaintenanceRepository
	repository.PaymentRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		UserRepository:        NewUserRepository(db),
		PropertyRepository:    NewPropertyRepository(db),
		BookingRepository:     NewBookingRepository(db),
		ChatRepository:        NewChatRepository(db),
		MaintenanceRepository: NewMaintenanceRepository(db),
		PaymentRepository:     NewPaymentRepository(db),
	}
}

func (s *Store) DB() *sql.DB { return s.db }

type scanner interface {
	Scan(dest ...any) error
}

// uniqueFields maps unique constraint names to the form field they protect.
var uniqueFields = map[string]string{
	"users_username_key":                    "username",
	"users_email_key":                       "email",
	"amenities_name_key":                    "name",
	"additional_occupants_booking_email_key": "occupants",
	"payment_records_transaction_id_key":    "transaction_id",
}

// mapError translates driver errors into domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			field := uniqueFields[pqErr.Constraint]
			if field == "" {
				field = "__all__"
			}
			return (&domain.ValidationError{Message: "a record with this value already exists"}).
				Add(field, "this value is already taken")
		case "23503": // foreign_key_violation
			return domain.NewValidationError("a referenced record does not exist")
		case "23514": // check_violation
			return domain.NewValidationError("value out of allowed range: " + strings.TrimSuffix(pqErr.Constraint, "_check"))
		}
	}
	return err
}

// likePattern wraps q for a case-insensitive substring match, escaping LIKE wildcards.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
