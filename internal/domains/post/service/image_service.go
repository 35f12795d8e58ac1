package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"blog-backend/internal/infrastructure/storage"
)

// ImageService handles the featured-image pipeline:
// validate -> resize into variants -> store -> return the URL
// that create/update accepts in featured_image.
type ImageService struct {
	storage   *storage.MinIOStorage
	processor *storage.ImageProcessor
}

func NewImageService(store *storage.MinIOStorage, processor *storage.ImageProcessor) *ImageService {
	return &ImageService{
		storage:   store,
		processor: processor,
	}
}

// UploadFeaturedImage stores all variants under posts/<uuid>/ and
// returns the large variant's public URL.
func (s *ImageService) UploadFeaturedImage(ctx context.Context, data []byte) (string, error) {
	if err := s.processor.ValidateImage(data); err != nil {
		return "", err
	}

	variants, err := s.processor.ProcessImage(data)
	if err != nil {
		return "", err
	}

	imageID := uuid.New()
	var largeURL string

	for name, payload := range variants {
		key := fmt.Sprintf("posts/%s/%s.jpg", imageID, name)
		url, err := s.storage.Upload(ctx, key, payload, "image/jpeg")
		if err != nil {
			// best effort cleanup of already-stored variants
			_ = s.storage.DeleteByPrefix(ctx, fmt.Sprintf("posts/%s/", imageID))
			return "", fmt.Errorf("failed to store %s variant: %w", name, err)
		}
		if name == "large" {
			largeURL = url
		}
	}

	return largeURL, nil
}
