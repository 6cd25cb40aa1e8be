package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/afiliados/afiliados-go/internal/crypto"
	"github.com/afiliados/afiliados-go/internal/model"
)

func testHasher() *crypto.PasswordHasher {
	return crypto.NewPasswordHasher(crypto.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
}

type mockCredentialStore struct {
	createFunc      func(ctx context.Context, c *model.Credential) error
	findByEmailFunc func(ctx context.Context, email string) (*model.Credential, error)
	findByIDFunc    func(ctx context.Context, id int64) (*model.Credential, error)
}

func (m *mockCredentialStore) Create(ctx context.Context, c *model.Credential) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	return errors.New("not implemented")
}

func (m *mockCredentialStore) FindByEmail(ctx context.Context, email string) (*model.Credential, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCredentialStore) FindByID(ctx context.Context, id int64) (*model.Credential, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

type mockAffiliateStore struct {
	createFunc             func(ctx context.Context, a *model.Affiliate) error
	existsByNationalIDFunc func(ctx context.Context, nationalID string) (bool, error)
	listAllFunc            func(ctx context.Context) ([]model.Affiliate, error)
}

func (m *mockAffiliateStore) Create(ctx context.Context, a *model.Affiliate) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, a)
	}
	return errors.New("not implemented")
}

func (m *mockAffiliateStore) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	if m.existsByNationalIDFunc != nil {
		return m.existsByNationalIDFunc(ctx, nationalID)
	}
	return false, errors.New("not implemented")
}

func (m *mockAffiliateStore) ListAll(ctx context.Context) ([]model.Affiliate, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

// memPhotoStore records saved photos in memory.
type memPhotoStore struct {
	mu      sync.Mutex
	files   map[string]string
	saveErr error
	deleted []string
}

func newMemPhotoStore() *memPhotoStore {
	return &memPhotoStore{files: make(map[string]string)}
}

func (s *memPhotoStore) Save(_ context.Context, name string, body io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := name
	for i := 2; ; i++ {
		if _, taken := s.files[stored]; !taken {
			break
		}
		stored = fmt.Sprintf("%d-%s", i, name)
	}
	s.files[stored] = string(b)
	return stored, nil
}

func (s *memPhotoStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, name)
	s.deleted = append(s.deleted, name)
	return nil
}
