package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
	"unistay-backend/internal/repository"
)

const bookingColumns = `b.id, b.property_id, p.title, p.owner_id, b.tenant_id, u.username, b.start_date, b.status,
	b.spots_booked, b.full_name, b.gender, b.student_id_number, b.email, b.current_address, b.university_name,
	b.expected_duration_of_stay, b.created_at, b.updated_at`

const bookingFrom = ` FROM bookings b
	JOIN properties p ON p.id = b.property_id
	JOIN users u ON u.id = b.tenant_id`

var activeBookingStatuses = []string{string(domain.BookingStatusPending), string(domain.BookingStatusConfirmed)}

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func scanBooking(row scanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(&b.ID, &b.PropertyID, &b.PropertyTitle, &b.OwnerID, &b.TenantID, &b.TenantUsername, &b.StartDate, &b.Status,
		&b.SpotsBooked, &b.FullName, &b.Gender, &b.StudentIDNumber, &b.Email, &b.CurrentAddress, &b.UniversityName,
		&b.ExpectedDurationOfStay, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) CreateWithHold(ctx context.Context, b *domain.Booking) error {
	logger.EnterMethod("bookingRepository.CreateWithHold", "propertyID", b.PropertyID, "tenantID", b.TenantID, "spots", b.SpotsBooked)

	err := r.createWithHold(ctx, b)
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.CreateWithHold", err, "propertyID", b.PropertyID, "tenantID", b.TenantID)
		return err
	}
	logger.ExitMethod("bookingRepository.CreateWithHold", "bookingID", b.ID)
	return nil
}

func (r *bookingRepository) createWithHold(ctx context.Context, b *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Serializes concurrent submissions by the same tenant.
	var locked int32
	if err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, b.TenantID).Scan(&locked); err != nil {
		return mapError(err)
	}

	var active int
	err = tx.QueryRowContext(ctx,
		`SELECT count(*) FROM bookings WHERE tenant_id = $1 AND status = ANY($2)`,
		b.TenantID, pq.Array(activeBookingStatuses)).Scan(&active)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.NewValidationError("You already have an active booking.")
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE properties SET booked_spots = booked_spots + $1 WHERE id = $2 AND total_spots - booked_spots >= $1`,
		b.SpotsBooked, b.PropertyID)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewValidationError("Not enough available spots for this booking.")
	}

	b.Status = domain.BookingStatusPending
	query := `INSERT INTO bookings (property_id, tenant_id, start_date, status, spots_booked, full_name, gender,
	              student_id_number, email, current_address, university_name, expected_duration_of_stay)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		b.PropertyID, b.TenantID, b.StartDate, b.Status, b.SpotsBooked, b.FullName, b.Gender,
		b.StudentIDNumber, b.Email, b.CurrentAddress, b.UniversityName, b.ExpectedDurationOfStay,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return mapError(err)
	}

	for i := range b.AdditionalOccupants {
		o := &b.AdditionalOccupants[i]
		o.BookingID = b.ID
		err := tx.QueryRowContext(ctx,
			`INSERT INTO additional_occupants (booking_id, full_name, student_id_number, email, phone_number, gender)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			o.BookingID, o.FullName, o.StudentIDNumber, o.Email, o.PhoneNumber, o.Gender,
		).Scan(&o.ID)
		if err != nil {
			return mapError(err)
		}
	}

	return tx.Commit()
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+bookingFrom+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func (r *bookingRepository) ListOccupants(ctx context.Context, bookingID int32) ([]domain.AdditionalOccupant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, booking_id, full_name, student_id_number, email, phone_number, gender
		 FROM additional_occupants WHERE booking_id = $1 ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AdditionalOccupant
	for rows.Next() {
		var o domain.AdditionalOccupant
		if err := rows.Scan(&o.ID, &o.BookingID, &o.FullName, &o.StudentIDNumber, &o.Email, &o.PhoneNumber, &o.Gender); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, id int32, next domain.BookingStatus) (*domain.Booking, error) {
	logger.EnterMethod("bookingRepository.TransitionStatus", "bookingID", id, "next", next)

	delta, err := r.transition(ctx, id, next)
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.TransitionStatus", err, "bookingID", id, "next", next)
		return nil, err
	}

	logger.ExitMethod("bookingRepository.TransitionStatus", "bookingID", id, "spotDelta", delta)
	return r.GetByID(ctx, id)
}

func (r *bookingRepository) transition(ctx context.Context, id int32, next domain.BookingStatus) (int32, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var (
		current    domain.BookingStatus
		spots      int32
		propertyID int32
	)
	err = tx.QueryRowContext(ctx,
		`SELECT status, spots_booked, property_id FROM bookings WHERE id = $1 FOR UPDATE`, id,
	).Scan(&current, &spots, &propertyID)
	if err != nil {
		return 0, mapError(err)
	}
	if !domain.CanTransition(current, next) {
		return 0, domain.NewValidationError(fmt.Sprintf("Booking is %s and cannot be moved to %s.", current, next))
	}

	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2`, next, id); err != nil {
		return 0, err
	}

	delta := domain.SpotDelta(current, next, spots)
	if delta != 0 {
		_, err := tx.ExecContext(ctx,
			`UPDATE properties SET booked_spots = LEAST(GREATEST(booked_spots + $1, 0), total_spots) WHERE id = $2`,
			delta, propertyID)
		if err != nil {
			return 0, err
		}
	}
	return delta, tx.Commit()
}

func (r *bookingRepository) ListByTenant(ctx context.Context, tenantID int32, statuses ...domain.BookingStatus) ([]domain.Booking, error) {
	return r.list(ctx, "b.tenant_id", tenantID, statuses, "b.start_date DESC, b.id DESC")
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int32, statuses ...domain.BookingStatus) ([]domain.Booking, error) {
	return r.list(ctx, "p.owner_id", ownerID, statuses, "b.created_at DESC, b.id DESC")
}

func (r *bookingRepository) list(ctx context.Context, column string, id int32, statuses []domain.BookingStatus, order string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + bookingFrom + ` WHERE ` + column + ` = $1`
	args := []any{id}
	if len(statuses) > 0 {
		query += ` AND b.status = ANY($2)`
		args = append(args, pq.Array(statusStrings(statuses)))
	}
	query += ` ORDER BY ` + order

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
