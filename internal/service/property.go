package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
	"unistay-backend/internal/repository"
	"unistay-backend/internal/storage"
)

const propertyImagePrefix = "properties"

// PropertyPage is one page of search results.
type PropertyPage struct {
	Properties []domain.Property
	Filters    domain.PropertySearch
	Total      int32
	Page       int32
	Pages      int32
}

func (p *PropertyPage) HasPrevious() bool { return p.Page > 1 }
func (p *PropertyPage) HasNext() bool     { return p.Page < p.Pages }

// ImageRules limits what may be uploaded as a property image.
type ImageRules struct {
	MaxBytes     int64
	AllowedTypes []string
}

// problem describes why u is rejected, or returns "".
func (r ImageRules) problem(u *domain.Upload) string {
	if r.MaxBytes > 0 && int64(len(u.Data)) > r.MaxBytes {
		return fmt.Sprintf("image must be at most %d MB", r.MaxBytes>>20)
	}
	for _, t := range r.AllowedTypes {
		if strings.EqualFold(t, u.ContentType) {
			return ""
		}
	}
	return "upload a JPEG, PNG or GIF image"
}

type propertyService struct {
	propertyRepo repository.PropertyRepository
	images       storage.ImageStore
	rules        ImageRules
}

func NewPropertyService(propertyRepo repository.PropertyRepository, images storage.ImageStore, rules ImageRules) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		images:       images,
		rules:        rules,
	}
}

func (s *propertyService) Search(ctx context.Context, f domain.PropertySearch) (*PropertyPage, error) {
	f = f.Normalize()
	props, total, err := s.propertyRepo.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	for i := range props {
		s.resolveImage(ctx, &props[i])
	}

	pages := (total + domain.SearchPageSize - 1) / domain.SearchPageSize
	if pages == 0 {
		pages = 1
	}
	return &PropertyPage{Properties: props, Filters: f, Total: total, Page: f.Page, Pages: pages}, nil
}

func (s *propertyService) GetProperty(ctx context.Context, id int32) (*domain.Property, error) {
	p, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.resolveImage(ctx, p)
	return p, nil
}

func (s *propertyService) GetForOwner(ctx context.Context, caller domain.Caller, id int32) (*domain.Property, error) {
	p, err := s.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(caller) && !caller.IsSuperuser {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (s *propertyService) CreateProperty(ctx context.Context, caller domain.Caller, in domain.PropertyInput, image *domain.Upload) (*domain.Property, error) {
	logger.EnterMethod("propertyService.CreateProperty", "ownerID", caller.UserID, "title", in.Title)

	if !caller.CanListProperties() {
		return nil, domain.ErrForbidden
	}
	if err := s.validate(ctx, in, nil, image); err != nil {
		logger.ExitMethodWithError("propertyService.CreateProperty", err, "ownerID", caller.UserID)
		return nil, err
	}

	p := &domain.Property{OwnerID: caller.UserID}
	in.Apply(p)
	if image != nil {
		key, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		p.MainImageKey = key
	}

	if err := s.propertyRepo.Create(ctx, p, nonNil(in.AmenityIDs)); err != nil {
		s.discardImage(ctx, p.MainImageKey)
		logger.ExitMethodWithError("propertyService.CreateProperty", err, "ownerID", caller.UserID)
		return nil, err
	}

	logger.ExitMethod("propertyService.CreateProperty", "propertyID", p.ID)
	return s.GetProperty(ctx, p.ID)
}

func (s *propertyService) UpdateProperty(ctx context.Context, caller domain.Caller, id int32, in domain.PropertyInput, image *domain.Upload) (*domain.Property, error) {
	logger.EnterMethod("propertyService.UpdateProperty", "propertyID", id, "callerID", caller.UserID)

	p, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(caller) && !caller.IsSuperuser {
		logger.ExitMethodWithError("propertyService.UpdateProperty", domain.ErrForbidden, "propertyID", id)
		return nil, domain.ErrForbidden
	}
	if err := s.validate(ctx, in, p, image); err != nil {
		logger.ExitMethodWithError("propertyService.UpdateProperty", err, "propertyID", id)
		return nil, err
	}

	in.Apply(p)
	oldKey := p.MainImageKey
	if image != nil {
		key, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		p.MainImageKey = key
	}

	if err := s.propertyRepo.Update(ctx, p, nonNil(in.AmenityIDs)); err != nil {
		if p.MainImageKey != oldKey {
			s.discardImage(ctx, p.MainImageKey)
		}
		logger.ExitMethodWithError("propertyService.UpdateProperty", err, "propertyID", id)
		return nil, err
	}
	if p.MainImageKey != oldKey {
		s.discardImage(ctx, oldKey)
	}

	logger.ExitMethod("propertyService.UpdateProperty", "propertyID", id)
	return s.GetProperty(ctx, id)
}

func (s *propertyService) validate(ctx context.Context, in domain.PropertyInput, existing *domain.Property, image *domain.Upload) error {
	v := &domain.ValidationError{}
	if err := in.Validate(existing); err != nil && !errors.As(err, &v) {
		return err
	}

	if len(in.AmenityIDs) > 0 {
		amenities, err := s.propertyRepo.ListAmenities(ctx)
		if err != nil {
			return fmt.Errorf("failed to load amenities: %w", err)
		}
		known := make(map[int32]bool, len(amenities))
		for _, a := range amenities {
			known[a.ID] = true
		}
		for _, id := range in.AmenityIDs {
			if !known[id] {
				v.Add("amenities", fmt.Sprintf("%d is not one of the available choices", id))
			}
		}
	}
	if image != nil {
		if msg := s.rules.problem(image); msg != "" {
			v.Add("main_image", msg)
		}
	}
	return v.OrNil()
}

func (s *propertyService) storeImage(ctx context.Context, u *domain.Upload) (string, error) {
	key := storage.NewImageKey(propertyImagePrefix, u.Filename, u.ContentType)
	if err := s.images.Put(ctx, key, bytes.NewReader(u.Data), int64(len(u.Data)), u.ContentType); err != nil {
		return "", fmt.Errorf("failed to store property image: %w", err)
	}
	return key, nil
}

func (s *propertyService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		logger.Warn("Failed to delete property image", "key", key, "error", err)
	}
}

func (s *propertyService) resolveImage(ctx context.Context, p *domain.Property) {
	p.MainImageURL = imageURL(ctx, s.images, p.MainImageKey)
}

func (s *propertyService) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	return s.propertyRepo.ListAmenities(ctx)
}

func (s *propertyService) AddAmenity(ctx context.Context, name string) (*domain.Amenity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, (&domain.ValidationError{}).Add("name", "this field is required").OrNil()
	}
	return s.propertyRepo.CreateAmenity(ctx, name)
}

// imageURL resolves a stored key; failures are logged and yield no image.
func imageURL(ctx context.Context, images storage.ImageStore, key string) string {
	if key == "" || images == nil {
		return ""
	}
	url, err := images.URL(ctx, key)
	if err != nil {
		logger.WarnContext(ctx, "Failed to resolve image URL", "key", key, "error", err)
		return ""
	}
	return url
}

// nonNil turns a missing amenity list into an empty one so the stored links are replaced.
func nonNil(ids []int32) []int32 {
	if ids == nil {
		return []int32{}
	}
	return ids
}
