package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/repository/postgres"
)

var propertyCols = []string{"id", "owner_id", "owner_name", "house_type", "title", "rent_cents", "university_nearby",
	"address", "description", "bedrooms", "total_room", "total_toilets", "square_footage", "max_tenants",
	"gender_preferred", "main_image_key", "total_spots", "booked_spots", "created_at"}

func propertyRows() *sqlmock.Rows {
	return sqlmock.NewRows(propertyCols).
		AddRow(9, 2, "Encik Lim", "Studio", "Studio near UniKL MIIT", 65000, "UniKL MIIT", "Jalan Sultan Ismail",
			"Walking distance", 1, 1, 1, nil, 2, "female", "properties/a.jpg", 2, 1, time.Now())
}

func TestPropertyRepository_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewPropertyRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM properties p WHERE p.total_spots - p.booked_spots > 0 AND \(p.title ILIKE \$1 OR`).
		WithArgs("%Miit%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT (.+) FROM properties p JOIN users u (.+) ILIKE \$1 (.+) ORDER BY p.created_at DESC, p.id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("%Miit%", int32(12), int32(0)).
		WillReturnRows(propertyRows())

	props, total, err := repo.Search(context.Background(), domain.PropertySearch{Query: " Miit "})
	require.NoError(t, err)
	assert.Equal(t, int32(1), total)
	require.Len(t, props, 1)
	assert.Equal(t, "Encik Lim", props[0].OwnerName)
	assert.Nil(t, props[0].SquareFootage)
	assert.Equal(t, int32(1), props[0].AvailableSpots())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_SearchFiltersAndSort(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewPropertyRepository(db)

	f := domain.PropertySearch{HouseType: domain.HouseTypeStudio, MinBedrooms: 2, PriceSort: domain.PriceSortAsc, Page: 3}
	mock.ExpectQuery(`SELECT count\(\*\) FROM properties p WHERE (.+) AND p.house_type = \$1 AND p.bedrooms >= \$2`).
		WithArgs("Studio", int32(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(30))
	mock.ExpectQuery(`ORDER BY p.rent_cents ASC, p.id ASC LIMIT \$3 OFFSET \$4`).
		WithArgs("Studio", int32(2), int32(12), int32(24)).
		WillReturnRows(sqlmock.NewRows(propertyCols))

	props, total, err := repo.Search(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, int32(30), total)
	assert.Empty(t, props)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_UpdateBelowBookedSpots(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewPropertyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE properties SET (.+) WHERE id=\$15 AND booked_spots <= \$14`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = repo.Update(context.Background(), &domain.Property{ID: 9, TotalSpots: 1}, nil)
	var v *domain.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Contains(t, v.Fields, "total_spots")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_CreateWithAmenities(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := postgres.NewPropertyRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO properties`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, time.Now()))
	mock.ExpectExec(`DELETE FROM property_amenities WHERE property_id = \$1`).WithArgs(int32(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO property_amenities \(property_id, amenity_id\) SELECT \$1, unnest\(\$2::int\[\]\)`).
		WithArgs(int32(9), "{1,3}").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	p := &domain.Property{OwnerID: 2, Title: "Room", TotalSpots: 2, BookedSpots: 5}
	require.NoError(t, repo.Create(context.Background(), p, []int32{1, 3}))
	assert.Equal(t, int32(9), p.ID)
	assert.Equal(t, int32(0), p.BookedSpots)
	assert.NoError(t, mock.ExpectationsWereMet())
}
