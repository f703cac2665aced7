package postgres

import (
	"context"
	"database/sql"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
	"unistay-backend/internal/repository"
)

const userColumns = `id, username, email, password_hash, full_name, phone_number, role, is_superuser, gender, course, created_at`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row scanner) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.PhoneNumber, &u.Role, &u.IsSuperuser, &u.Gender, &u.Course, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	logger.EnterMethod("userRepository.Create", "username", u.Username, "role", u.Role)

	query := `INSERT INTO users (username, email, password_hash, full_name, phone_number, role, is_superuser, gender, course)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.FullName, u.PhoneNumber, u.Role, u.IsSuperuser, u.Gender, u.Course,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		err = mapError(err)
		logger.ExitMethodWithError("userRepository.Create", err, "username", u.Username)
		return err
	}

	logger.ExitMethod("userRepository.Create", "userID", u.ID)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY full_name, username`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
