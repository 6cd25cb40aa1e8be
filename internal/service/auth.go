package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/afiliados/afiliados-go/internal/model"
	"github.com/afiliados/afiliados-go/internal/repository"
)

// CredentialStore persists login accounts.
type CredentialStore interface {
	Create(ctx context.Context, c *model.Credential) error
	FindByEmail(ctx context.Context, email string) (*model.Credential, error)
	FindByID(ctx context.Context, id int64) (*model.Credential, error)
}

// PasswordHasher derives and checks salted password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// AuthService registers accounts and checks logins.
type AuthService struct {
	repo   CredentialStore
	hasher PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(repo CredentialStore, hasher PasswordHasher) *AuthService {
	return &AuthService{repo: repo, hasher: hasher}
}

// Register creates an account. All fields are trimmed and required; the email
// must not be in use.
func (s *AuthService) Register(ctx context.Context, in model.RegisterInput) (*model.Credential, error) {
	in = model.RegisterInput{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Password: strings.TrimSpace(in.Password),
		Phone:    strings.TrimSpace(in.Phone),
	}
	if in.Username == "" || in.Email == "" || in.Password == "" || in.Phone == "" {
		return nil, ErrMissingFields
	}

	_, err := s.repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storageError(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	c := &model.Credential{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, storageError(err)
	}

	return c, nil
}

// Login returns the credential matching email and password. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials and cost one hash check.
func (s *AuthService) Login(ctx context.Context, in model.LoginInput) (*model.Credential, error) {
	email := strings.TrimSpace(in.Email)
	password := strings.TrimSpace(in.Password)

	c, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_, _ = s.hasher.Verify(password, s.dummy())
			return nil, ErrInvalidCredentials
		}
		return nil, storageError(err)
	}

	ok, err := s.hasher.Verify(password, c.PasswordHash)
	if err != nil {
		slog.WarnContext(ctx, "stored password hash is unreadable", "user_id", c.ID, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return c, nil
}

// Identity reloads the credential behind a session.
func (s *AuthService) Identity(ctx context.Context, id int64) (*model.Credential, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownCredential
		}
		return nil, storageError(err)
	}
	return c, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("afiliados-timing-equaliser")
	})
	return s.dummyHash
}

func storageError(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
