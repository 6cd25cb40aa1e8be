package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/afiliados/afiliados-go/internal/model"
)

// MemoryCredentialRepository is a process-local credential store used for
// development (STORAGE=memory) and tests. It enforces the same unique email rule.
type MemoryCredentialRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]model.Credential
}

func NewMemoryCredentialRepository() *MemoryCredentialRepository {
	return &MemoryCredentialRepository{byID: make(map[int64]model.Credential)}
}

func (r *MemoryCredentialRepository) Create(_ context.Context, c *model.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Email == c.Email {
			return ErrDuplicateKey
		}
	}

	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now().UTC()
	r.byID[c.ID] = *c
	return nil
}

func (r *MemoryCredentialRepository) FindByEmail(_ context.Context, email string) (*model.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.byID {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryCredentialRepository) FindByID(_ context.Context, id int64) (*model.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

// MemoryAffiliateRepository is the in-memory counterpart of AffiliateRepository.
type MemoryAffiliateRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]model.Affiliate
}

func NewMemoryAffiliateRepository() *MemoryAffiliateRepository {
	return &MemoryAffiliateRepository{byID: make(map[int64]model.Affiliate)}
}

func (r *MemoryAffiliateRepository) Create(_ context.Context, a *model.Affiliate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.NationalID == a.NationalID {
			return ErrDuplicateKey
		}
	}

	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now().UTC()
	r.byID[a.ID] = *a
	return nil
}

func (r *MemoryAffiliateRepository) ExistsByNationalID(_ context.Context, nationalID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.NationalID == nationalID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryAffiliateRepository) ListAll(_ context.Context) ([]model.Affiliate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	affiliates := make([]model.Affiliate, 0, len(r.byID))
	for _, a := range r.byID {
		affiliates = append(affiliates, a)
	}
	sort.Slice(affiliates, func(i, j int) bool { return affiliates[i].ID > affiliates[j].ID })
	return affiliates, nil
}
