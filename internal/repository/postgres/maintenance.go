package postgres

import (
	"context"
	"database/sql"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
	"unistay-backend/internal/repository"
)

const maintenanceColumns = `r.id, r.property_id, p.title, r.submitted_by, COALESCE(NULLIF(u.full_name, ''), u.username),
	r.issue_title, r.issue_description, r.submitted_date, r.status, r.priority, r.resolved_date, r.resolution_notes`

const maintenanceFrom = ` FROM maintenance_requests r
	JOIN properties p ON p.id = r.property_id
	JOIN users u ON u.id = r.submitted_by`

type maintenanceRepository struct {
	db *sql.DB
}

func NewMaintenanceRepository(db *sql.DB) repository.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func scanMaintenance(row scanner) (*domain.MaintenanceRequest, error) {
	m := &domain.MaintenanceRequest{}
	var resolved sql.NullTime
	err := row.Scan(&m.ID, &m.PropertyID, &m.PropertyTitle, &m.SubmittedBy, &m.SubmitterName,
		&m.IssueTitle, &m.IssueDescription, &m.SubmittedDate, &m.Status, &m.Priority, &resolved, &m.ResolutionNotes)
	if err != nil {
		return nil, err
	}
	if resolved.Valid {
		t := resolved.Time
		m.ResolvedDate = &t
	}
	return m, nil
}

func (r *maintenanceRepository) Create(ctx context.Context, m *domain.MaintenanceRequest) error {
	query := `INSERT INTO maintenance_requests (property_id, submitted_by, issue_title, issue_description, status, priority)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, submitted_date`
	err := r.db.QueryRowContext(ctx, query,
		m.PropertyID, m.SubmittedBy, m.IssueTitle, m.IssueDescription, m.Status, m.Priority,
	).Scan(&m.ID, &m.SubmittedDate)
	return mapError(err)
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id int32) (*domain.MaintenanceRequest, error) {
	m, err := scanMaintenance(r.db.QueryRowContext(ctx, `SELECT `+maintenanceColumns+maintenanceFrom+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

func (r *maintenanceRepository) Update(ctx context.Context, m *domain.MaintenanceRequest) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE maintenance_requests SET status = $1, resolution_notes = $2, resolved_date = $3 WHERE id = $4`,
		m.Status, m.ResolutionNotes, m.ResolvedDate, m.ID)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *maintenanceRepository) Delete(ctx context.Context, id, submittedBy int32) error {
	logger.EnterMethod("maintenanceRepository.Delete", "requestID", id, "submittedBy", submittedBy)

	res, err := r.db.ExecContext(ctx, `DELETE FROM maintenance_requests WHERE id = $1 AND submitted_by = $2`, id, submittedBy)
	if err != nil {
		logger.ExitMethodWithError("maintenanceRepository.Delete", err, "requestID", id)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		logger.ExitMethodWithError("maintenanceRepository.Delete", domain.ErrNotFound, "requestID", id)
		return domain.ErrNotFound
	}

	logger.ExitMethod("maintenanceRepository.Delete", "requestID", id)
	return nil
}

func (r *maintenanceRepository) ListBySubmitter(ctx context.Context, userID int32) ([]domain.MaintenanceRequest, error) {
	return r.list(ctx, `SELECT `+maintenanceColumns+maintenanceFrom+` WHERE r.submitted_by = $1 ORDER BY r.submitted_date DESC, r.id DESC`, userID)
}

func (r *maintenanceRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.MaintenanceRequest, error) {
	return r.list(ctx, `SELECT `+maintenanceColumns+maintenanceFrom+` WHERE p.owner_id = $1 ORDER BY r.submitted_date DESC, r.id DESC`, ownerID)
}

func (r *maintenanceRepository) list(ctx context.Context, query string, args ...any) ([]domain.MaintenanceRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MaintenanceRequest
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}
