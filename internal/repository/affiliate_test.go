package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afiliados/afiliados-go/internal/model"
)

func strPtr(s string) *string { return &s }

func TestAffiliateCreate_WithPhoto(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAffiliateRepository(db)

	mock.ExpectExec(`INSERT INTO affiliates`).
		WithArgs("Ana", "Pérez", "0912345678", "ana@example.com", "555-0101", "Av. Siempre Viva 742", "ana.jpg").
		WillReturnResult(sqlmock.NewResult(11, 1))

	a := &model.Affiliate{
		FirstName: "Ana", LastName: "Pérez", NationalID: "0912345678", Email: "ana@example.com",
		Phone: "555-0101", Address: "Av. Siempre Viva 742", Photo: strPtr("ana.jpg"),
	}
	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, int64(11), a.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAffiliateCreate_WithoutPhotoStoresNull(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAffiliateRepository(db)

	mock.ExpectExec(`INSERT INTO affiliates`).
		WithArgs("Ana", "Pérez", "1", "a@b.c", "1", "x", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	a := &model.Affiliate{FirstName: "Ana", LastName: "Pérez", NationalID: "1", Email: "a@b.c", Phone: "1", Address: "x"}
	require.NoError(t, repo.Create(context.Background(), a))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAffiliateCreate_DuplicateNationalID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAffiliateRepository(db)

	mock.ExpectExec(`INSERT INTO affiliates`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := repo.Create(context.Background(), &model.Affiliate{NationalID: "1"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestAffiliateExistsByNationalID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAffiliateRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM affiliates WHERE national_id = ?)`)).
		WithArgs("0912345678").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByNationalID(context.Background(), "0912345678")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAffiliateListAll_NewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAffiliateRepository(db)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "national_id", "email", "phone", "address", "photo", "created_at"}).
		AddRow(2, "Luis", "Mora", "2", "luis@example.com", "2", "Calle 2", nil, now).
		AddRow(1, "Ana", "Pérez", "1", "ana@example.com", "1", "Calle 1", "ana.jpg", now)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM affiliates ORDER BY id DESC`)).WillReturnRows(rows)

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Nil(t, got[0].Photo)
	require.NotNil(t, got[1].Photo)
	assert.Equal(t, "ana.jpg", *got[1].Photo)
}

func TestAffiliateListAll_EmptyIsNonNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAffiliateRepository(db)

	mock.ExpectQuery(`FROM affiliates`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "national_id", "email", "phone", "address", "photo", "created_at"}))

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAffiliateListAll_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAffiliateRepository(db)

	mock.ExpectQuery(`FROM affiliates`).WillReturnError(errors.New("server has gone away"))

	_, err := repo.ListAll(context.Background())
	assert.Error(t, err)
}
