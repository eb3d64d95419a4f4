package model

import (
	"strings"

	domain_errors "simple-social-service/internal/domain/errors"
)

type CreatePostDTO struct {
	User  string      `json:"user" validate:"required"`
	Text  string      `json:"text"`
	Image *ImageInput `json:"-" validate:"required"`
}

// Validate checks the invariants every store enforces on create, independent of the
// request layer.
func (d *CreatePostDTO) Validate(maxImageBytes int64) error {
	if strings.TrimSpace(d.User) == "" {
		return domain_errors.NewValidationError("user", "user is required")
	}
	if d.Image == nil || len(d.Image.Data) == 0 {
		return domain_errors.NewValidationError("image", "image is required")
	}
	if maxImageBytes > 0 && int64(len(d.Image.Data)) > maxImageBytes {
		return domain_errors.NewValidationError("image", "image exceeds maximum size")
	}
	return nil
}
