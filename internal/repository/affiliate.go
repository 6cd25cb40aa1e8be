package repository

import (
	"context"
	"database/sql"

	"github.com/afiliados/afiliados-go/internal/model"
)

// AffiliateRepository stores member records in the affiliates table.
type AffiliateRepository struct {
	db *sql.DB
}

func NewAffiliateRepository(db *sql.DB) *AffiliateRepository {
	return &AffiliateRepository{db: db}
}

// Create inserts a and sets its generated ID. A taken national ID yields ErrDuplicateKey.
func (r *AffiliateRepository) Create(ctx context.Context, a *model.Affiliate) error {
	query := `INSERT INTO affiliates (first_name, last_name, national_id, email, phone, address, photo)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	var photo sql.NullString
	if a.Photo != nil {
		photo = sql.NullString{String: *a.Photo, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query,
		a.FirstName, a.LastName, a.NationalID, a.Email, a.Phone, a.Address, photo,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateKey
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	a.ID = id
	return nil
}

// ExistsByNationalID reports whether an affiliate with the given national ID is stored.
func (r *AffiliateRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM affiliates WHERE national_id = ?)`, nationalID,
	).Scan(&exists)
	return exists, err
}

// ListAll returns every affiliate, most recently created first.
func (r *AffiliateRepository) ListAll(ctx context.Context) ([]model.Affiliate, error) {
	query := `SELECT id, first_name, last_name, national_id, email, phone, address, photo, created_at
		FROM affiliates ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	affiliates := []model.Affiliate{}
	for rows.Next() {
		var (
			a     model.Affiliate
			photo sql.NullString
		)
		if err := rows.Scan(
			&a.ID, &a.FirstName, &a.LastName, &a.NationalID,
			&a.Email, &a.Phone, &a.Address, &photo, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		if photo.Valid {
			p := photo.String
			a.Photo = &p
		}
		affiliates = append(affiliates, a)
	}

	return affiliates, rows.Err()
}
