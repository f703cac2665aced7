package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/repository/postgres"
)

func TestUserRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users \(username, email, password_hash, full_name, phone_number, role, is_superuser, gender, course\)`).
		WithArgs("aina", "aina@example.com", "hash", "Aina", "0123", "student", false, "female", "BSE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(5, now))

	u := &domain.User{Username: "aina", Email: "aina@example.com", PasswordHash: "hash", FullName: "Aina",
		PhoneNumber: "0123", Role: domain.RoleStudent, Gender: domain.GenderFemale, Course: "BSE"}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int32(5), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateDuplicateUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	err = repo.Create(context.Background(), &domain.User{Username: "aina", Role: domain.RoleOwner})
	var v *domain.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Contains(t, v.Fields, "username")
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewUserRepository(db)

	cols := []string{"id", "username", "email", "password_hash", "full_name", "phone_number", "role",
		"is_superuser", "gender", "course", "created_at"}
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username = \$1`).WithArgs("lim").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(2, "lim", "lim@example.com", "hash", "Encik Lim", "0199",
			"owner", false, "", "", time.Now()))
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username = \$1`).WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(cols))

	u, err := repo.GetByUsername(context.Background(), "lim")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, u.Role)
	assert.True(t, u.Caller().CanListProperties())

	_, err = repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
