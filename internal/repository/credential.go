package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/afiliados/afiliados-go/internal/model"
)

// CredentialRepository stores login accounts in the users table.
type CredentialRepository struct {
	db *sql.DB
}

func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

const credentialColumns = `id, username, email, password_hash, phone, created_at`

// Create inserts c and sets its generated ID. A taken email yields ErrDuplicateKey.
func (r *CredentialRepository) Create(ctx context.Context, c *model.Credential) error {
	query := `INSERT INTO users (username, email, password_hash, phone) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, c.Username, c.Email, c.PasswordHash, c.Phone)
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

	c.ID = id
	return nil
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*model.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *CredentialRepository) FindByID(ctx context.Context, id int64) (*model.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *CredentialRepository) scanOne(row *sql.Row) (*model.Credential, error) {
	c := &model.Credential{}
	err := row.Scan(&c.ID, &c.Username, &c.Email, &c.PasswordHash, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}
