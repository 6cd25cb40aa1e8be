package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/afiliados/afiliados-go/internal/model"
	"github.com/afiliados/afiliados-go/internal/repository"
	"github.com/afiliados/afiliados-go/internal/storage"
)

// AffiliateStore persists affiliate records.
type AffiliateStore interface {
	Create(ctx context.Context, a *model.Affiliate) error
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
	ListAll(ctx context.Context) ([]model.Affiliate, error)
}

// PhotoStore keeps uploaded photos by name. Save never replaces an existing
// photo: on a name clash it stores under a variant and returns that name.
type PhotoStore interface {
	Save(ctx context.Context, name string, body io.Reader) (string, error)
	Delete(ctx context.Context, name string) error
}

// fallbackPhotoName names uploads whose filename sanitizes to nothing.
var fallbackPhotoName = func() string {
	return "foto-" + uuid.NewString()
}

// AffiliateService registers and lists affiliates.
type AffiliateService struct {
	repo   AffiliateStore
	photos PhotoStore
}

func NewAffiliateService(repo AffiliateStore, photos PhotoStore) *AffiliateService {
	return &AffiliateService{repo: repo, photos: photos}
}

// Register validates in, stores its photo if any, then inserts the record.
// Checks run in order and the first failure is returned: missing fields,
// duplicate national ID, photo write. If the insert fails after the photo
// was written, that photo is removed again; it was created by this call, so
// no other record can refer to it.
func (s *AffiliateService) Register(ctx context.Context, in model.AffiliateInput) (*model.Affiliate, error) {
	a := &model.Affiliate{
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		NationalID: strings.TrimSpace(in.NationalID),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Address:    strings.TrimSpace(in.Address),
	}
	for _, v := range []string{a.FirstName, a.LastName, a.NationalID, a.Email, a.Phone, a.Address} {
		if v == "" {
			return nil, ErrMissingFields
		}
	}

	exists, err := s.repo.ExistsByNationalID(ctx, a.NationalID)
	if err != nil {
		return nil, storageError(err)
	}
	if exists {
		return nil, ErrDuplicateAffiliate
	}

	if in.Photo != nil && in.Photo.Filename != "" {
		name := storage.SanitizeFilename(in.Photo.Filename)
		if name == "" {
			name = fallbackPhotoName()
		}
		stored, err := s.photos.Save(ctx, name, in.Photo.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFileWrite, err)
		}
		a.Photo = &stored
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.discardPhoto(ctx, a.Photo)
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateAffiliate
		}
		return nil, storageError(err)
	}

	return a, nil
}

// ListAll returns every affiliate, newest first.
func (s *AffiliateService) ListAll(ctx context.Context) ([]model.Affiliate, error) {
	affiliates, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	if affiliates == nil {
		affiliates = []model.Affiliate{}
	}
	return affiliates, nil
}

func (s *AffiliateService) discardPhoto(ctx context.Context, name *string) {
	if name == nil {
		return
	}
	if err := s.photos.Delete(ctx, *name); err != nil {
		slog.WarnContext(ctx, "orphaned photo left behind", "photo", *name, "error", err)
	}
}
