package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
	"unistay-backend/internal/repository"
)

const propertyColumns = `p.id, p.owner_id, COALESCE(NULLIF(u.full_name, ''), u.username), p.house_type, p.title, p.rent_cents,
	p.university_nearby, p.address, p.description, p.bedrooms, p.total_room, p.total_toilets, p.square_footage,
	p.max_tenants, p.gender_preferred, p.main_image_key, p.total_spots, p.booked_spots, p.created_at`

const propertyFrom = ` FROM properties p JOIN users u ON u.id = p.owner_id`

type propertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) repository.PropertyRepository {
	return &propertyRepository{db: db}
}

func scanProperty(row scanner) (*domain.Property, error) {
	p := &domain.Property{}
	var sqft sql.NullInt32
	err := row.Scan(&p.ID, &p.OwnerID, &p.OwnerName, &p.HouseType, &p.Title, &p.RentCents,
		&p.UniversityNearby, &p.Address, &p.Description, &p.Bedrooms, &p.TotalRoom, &p.TotalToilets, &sqft,
		&p.MaxTenants, &p.GenderPreferred, &p.MainImageKey, &p.TotalSpots, &p.BookedSpots, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.SquareFootage = nullableInt32(sqft)
	return p, nil
}

func (r *propertyRepository) Create(ctx context.Context, p *domain.Property, amenityIDs []int32) error {
	logger.EnterMethod("propertyRepository.Create", "ownerID", p.OwnerID, "title", p.Title)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO properties (owner_id, house_type, title, rent_cents, university_nearby, address, description,
	              bedrooms, total_room, total_toilets, square_footage, max_tenants, gender_preferred, main_image_key,
	              total_spots, booked_spots)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 0)
	          RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, query,
		p.OwnerID, p.HouseType, p.Title, p.RentCents, p.UniversityNearby, p.Address, p.Description,
		p.Bedrooms, p.TotalRoom, p.TotalToilets, p.SquareFootage, p.MaxTenants, p.GenderPreferred, p.MainImageKey,
		p.TotalSpots,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		err = mapError(err)
		logger.ExitMethodWithError("propertyRepository.Create", err, "ownerID", p.OwnerID)
		return err
	}
	p.BookedSpots = 0

	if err := replaceAmenities(ctx, tx, p.ID, amenityIDs); err != nil {
		logger.ExitMethodWithError("propertyRepository.Create", err, "propertyID", p.ID)
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	logger.ExitMethod("propertyRepository.Create", "propertyID", p.ID)
	return nil
}

// replaceAmenities rewrites the amenity links of a property. A nil slice leaves them untouched.
func replaceAmenities(ctx context.Context, tx *sql.Tx, propertyID int32, amenityIDs []int32) error {
	if amenityIDs == nil {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM property_amenities WHERE property_id = $1`, propertyID); err != nil {
		return err
	}
	if len(amenityIDs) == 0 {
		return nil
	}
	ids := make([]int64, len(amenityIDs))
	for i, id := range amenityIDs {
		ids[i] = int64(id)
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO property_amenities (property_id, amenity_id) SELECT $1, unnest($2::int[]) ON CONFLICT DO NOTHING`,
		propertyID, pq.Array(ids))
	return mapError(err)
}

func (r *propertyRepository) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	p, err := scanProperty(r.db.QueryRowContext(ctx, `SELECT `+propertyColumns+propertyFrom+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT a.id, a.name FROM amenities a
		JOIN property_amenities pa ON pa.amenity_id = a.id WHERE pa.property_id = $1 ORDER BY a.name`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a domain.Amenity
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		p.Amenities = append(p.Amenities, a)
	}
	return p, rows.Err()
}

func (r *propertyRepository) Update(ctx context.Context, p *domain.Property, amenityIDs []int32) error {
	logger.EnterMethod("propertyRepository.Update", "propertyID", p.ID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// booked_spots may have moved since the caller read it; never let total drop below it
	query := `UPDATE properties SET house_type=$1, title=$2, rent_cents=$3, university_nearby=$4, address=$5,
	              description=$6, bedrooms=$7, total_room=$8, total_toilets=$9, square_footage=$10, max_tenants=$11,
	              gender_preferred=$12, main_image_key=$13, total_spots=$14
	          WHERE id=$15 AND booked_spots <= $14`
	res, err := tx.ExecContext(ctx, query,
		p.HouseType, p.Title, p.RentCents, p.UniversityNearby, p.Address,
		p.Description, p.Bedrooms, p.TotalRoom, p.TotalToilets, p.SquareFootage, p.MaxTenants,
		p.GenderPreferred, p.MainImageKey, p.TotalSpots, p.ID)
	if err != nil {
		err = mapError(err)
		logger.ExitMethodWithError("propertyRepository.Update", err, "propertyID", p.ID)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err := (&domain.ValidationError{}).Add("total_spots", "total spots cannot be lower than the spots already booked").OrNil()
		logger.ExitMethodWithError("propertyRepository.Update", err, "propertyID", p.ID)
		return err
	}

	if err := replaceAmenities(ctx, tx, p.ID, amenityIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.ExitMethod("propertyRepository.Update", "propertyID", p.ID)
	return nil
}

func (r *propertyRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Property, error) {
	return r.list(ctx, `SELECT `+propertyColumns+propertyFrom+` WHERE p.owner_id = $1 ORDER BY p.created_at DESC, p.id DESC`, ownerID)
}

func (r *propertyRepository) list(ctx context.Context, query string, args ...any) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var props []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, *p)
	}
	return props, rows.Err()
}

func (r *propertyRepository) Search(ctx context.Context, f domain.PropertySearch) ([]domain.Property, int32, error) {
	f = f.Normalize()
	logger.EnterMethod("propertyRepository.Search", "query", f.Query, "page", f.Page)

	where := []string{"p.total_spots - p.booked_spots > 0"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		ph := arg(likePattern(q))
		where = append(where, fmt.Sprintf(
			"(p.title ILIKE %[1]s OR p.address ILIKE %[1]s OR p.description ILIKE %[1]s OR p.university_nearby ILIKE %[1]s)", ph))
	}
	if f.HouseType != "" {
		where = append(where, "p.house_type = "+arg(string(f.HouseType)))
	}
	if f.GenderPreference != "" {
		where = append(where, "p.gender_preferred = "+arg(string(f.GenderPreference)))
	}
	if f.MinBedrooms > 0 {
		where = append(where, "p.bedrooms >= "+arg(f.MinBedrooms))
	}
	cond := " WHERE " + strings.Join(where, " AND ")

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM properties p`+cond, args...).Scan(&count); err != nil {
		logger.ExitMethodWithError("propertyRepository.Search", err)
		return nil, 0, err
	}

	var order string
	switch f.PriceSort {
	case domain.PriceSortAsc:
		order = " ORDER BY p.rent_cents ASC, p.id ASC"
	case domain.PriceSortDesc:
		order = " ORDER BY p.rent_cents DESC, p.id DESC"
	default:
		order = " ORDER BY p.created_at DESC, p.id DESC"
	}
	query := `SELECT ` + propertyColumns + propertyFrom + cond + order +
		fmt.Sprintf(" LIMIT %s OFFSET %s", arg(int32(domain.SearchPageSize)), arg(f.Offset()))

	props, err := r.list(ctx, query, args...)
	if err != nil {
		logger.ExitMethodWithError("propertyRepository.Search", err)
		return nil, 0, err
	}
	logger.ExitMethod("propertyRepository.Search", "count", count)
	return props, count, nil
}

func (r *propertyRepository) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM amenities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Amenity
	for rows.Next() {
		var a domain.Amenity
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateAmenity is idempotent on name.
func (r *propertyRepository) CreateAmenity(ctx context.Context, name string) (*domain.Amenity, error) {
	a := &domain.Amenity{Name: name}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO amenities (name) VALUES ($1) ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id`,
		name).Scan(&a.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}
