package postgres

import (
	"context"
	"database/sql"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/repository"
)

const chatColumns = `m.id, m.sender_id, m.receiver_id, m.property_id, m.message, m.sent_at, m.is_read,
	s.username, s.full_name, rv.username, rv.full_name, COALESCE(p.title, ''), COALESCE(p.main_image_key, '')`

const chatFrom = ` FROM chat_messages m
	JOIN users s ON s.id = m.sender_id
	JOIN users rv ON rv.id = m.receiver_id
	LEFT JOIN properties p ON p.id = m.property_id`

type chatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) repository.ChatRepository {
	return &chatRepository{db: db}
}

func scanChatMessage(row scanner) (*domain.ChatMessage, error) {
	m := &domain.ChatMessage{}
	var propertyID sql.NullInt32
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &propertyID, &m.Message, &m.Timestamp, &m.IsRead,
		&m.Sender.Username, &m.Sender.FullName, &m.Receiver.Username, &m.Receiver.FullName,
		&m.PropertyTitle, &m.PropertyImageKey)
	if err != nil {
		return nil, err
	}
	m.PropertyID = nullableInt32(propertyID)
	m.Sender.ID = m.SenderID
	m.Receiver.ID = m.ReceiverID
	return m, nil
}

func (r *chatRepository) Create(ctx context.Context, m *domain.ChatMessage) error {
	query := `INSERT INTO chat_messages (sender_id, receiver_id, property_id, message, is_read)
	          VALUES ($1, $2, $3, $4, FALSE) RETURNING id, sent_at`
	err := r.db.QueryRowContext(ctx, query, m.SenderID, m.ReceiverID, m.PropertyID, m.Message).Scan(&m.ID, &m.Timestamp)
	return mapError(err)
}

func (r *chatRepository) ListThread(ctx context.Context, propertyID, userA, userB int32) ([]domain.ChatMessage, error) {
	query := `SELECT ` + chatColumns + chatFrom + `
		WHERE m.property_id = $1
		  AND ((m.sender_id = $2 AND m.receiver_id = $3) OR (m.sender_id = $3 AND m.receiver_id = $2))
		ORDER BY m.sent_at ASC, m.id ASC`
	return r.list(ctx, query, propertyID, userA, userB)
}

func (r *chatRepository) ListForUser(ctx context.Context, userID int32) ([]domain.ChatMessage, error) {
	query := `SELECT ` + chatColumns + chatFrom + `
		WHERE m.sender_id = $1 OR m.receiver_id = $1
		ORDER BY m.sent_at DESC, m.id DESC`
	return r.list(ctx, query, userID)
}

func (r *chatRepository) list(ctx context.Context, query string, args ...any) ([]domain.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ChatMessage
	for rows.Next() {
		m, err := scanChatMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *chatRepository) MarkThreadRead(ctx context.Context, propertyID, readerID, otherID int32) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE chat_messages SET is_read = TRUE
		 WHERE property_id = $1 AND receiver_id = $2 AND sender_id = $3 AND NOT is_read`,
		propertyID, readerID, otherID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
