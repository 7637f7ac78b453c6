package app

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/storage"
	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/store"
)

type UpdateProfileInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone"`
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	Postcode    string `json:"postcode"`
}

// UpdateProfile updates the caller's own profile fields.
func (s *Service) UpdateProfile(ctx context.Context, actor store.User, input UpdateProfileInput) (UserView, error) {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return UserView{}, validationError("First and last name are required")
	}

	actor.FirstName = strings.TrimSpace(input.FirstName)
	actor.LastName = strings.TrimSpace(input.LastName)
	actor.Phone = input.Phone
	actor.AddressLine = input.AddressLine
	actor.City = input.City
	actor.Postcode = input.Postcode
	if err := s.store.UpdateUserProfile(ctx, actor); err != nil {
		return UserView{}, err
	}
	return toUserView(actor), nil
}

// UploadAvatar stores the image in the object store and points the profile
// at its URL. Returns the updated profile.
func (s *Service) UploadAvatar(ctx context.Context, actor store.User, contentType string, r io.Reader, size int64) (UserView, error) {
	if s.avatars == nil {
		return UserView{}, domainError(503, "STORAGE_UNAVAILABLE", "Avatar storage is not configured", nil)
	}
	if size <= 0 {
		return UserView{}, validationError("An avatar image is required")
	}
	const maxAvatarBytes = 5 << 20
	if size > maxAvatarBytes {
		return UserView{}, validationError("Avatar images are limited to 5MB")
	}

	url, err := s.avatars.Put(ctx, actor.ID, contentType, r, size)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			return UserView{}, validationError("Avatar must be a JPEG, PNG, or WebP image")
		}
		return UserView{}, err
	}
	if err := s.store.UpdateUserAvatar(ctx, actor.ID, url); err != nil {
		return UserView{}, err
	}

	actor.AvatarURL = url
	return toUserView(actor), nil
}
