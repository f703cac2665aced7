package postgres

import (
	"context"
	"database/sql"
	"time"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
	"unistay-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.PaymentRecord, at time.Time) error {
	logger.EnterMethod("paymentRepository.Create", "guest", p.UserID == nil, "amountCents", p.AmountCents)

	if err := r.create(ctx, p, at); err != nil {
		logger.ExitMethodWithError("paymentRepository.Create", err)
		return err
	}

	logger.ExitMethod("paymentRepository.Create", "paymentID", p.ID, "transactionID", p.TransactionID)
	return nil
}

func (r *paymentRepository) create(ctx context.Context, p *domain.PaymentRecord, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO payment_records (user_id, booking_id, receiver_id, full_name, email, phone_number,
	              amount_cents, payment_method, payment_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		p.UserID, p.BookingID, p.ReceiverID, p.FullName, p.Email, p.PhoneNumber,
		p.AmountCents, p.PaymentMethod, at,
	).Scan(&p.ID)
	if err != nil {
		return mapError(err)
	}

	txID := domain.NewTransactionID(at, p.ID, p.UserID)
	if _, err := tx.ExecContext(ctx, `UPDATE payment_records SET transaction_id = $1 WHERE id = $2`, txID, p.ID); err != nil {
		return mapError(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	p.PaymentDate = at
	p.TransactionID = txID
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id int32) (*domain.PaymentRecord, error) {
	query := `SELECT pr.id, pr.user_id, pr.booking_id, COALESCE(p.title, ''), pr.receiver_id,
	              COALESCE(NULLIF(rv.full_name, ''), rv.username, ''), pr.full_name, pr.email, pr.phone_number,
	              pr.amount_cents, pr.payment_method, pr.payment_date, COALESCE(pr.transaction_id, '')
	          FROM payment_records pr
	          LEFT JOIN bookings b ON b.id = pr.booking_id
	          LEFT JOIN properties p ON p.id = b.property_id
	          LEFT JOIN users rv ON rv.id = pr.receiver_id
	          WHERE pr.id = $1`

	rec := &domain.PaymentRecord{}
	var userID, bookingID, receiverID sql.NullInt32
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rec.ID, &userID, &bookingID, &rec.BookingTitle, &receiverID,
		&rec.ReceiverName, &rec.FullName, &rec.Email, &rec.PhoneNumber,
		&rec.AmountCents, &rec.PaymentMethod, &rec.PaymentDate, &rec.TransactionID)
	if err != nil {
		return nil, mapError(err)
	}
	rec.UserID = nullableInt32(userID)
	rec.BookingID = nullableInt32(bookingID)
	rec.ReceiverID = nullableInt32(receiverID)
	return rec, nil
}

func nullableInt32(v sql.NullInt32) *int32 {
	if !v.Valid {
		return nil
	}
	n := v.Int32
	return &n
}
