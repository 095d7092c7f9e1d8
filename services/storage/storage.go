package storage

import (
	"context"
	"fmt"
	"strings"

	"petmily/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// NewStorageService creates a Cloudinary-backed storage service.
func NewStorageService(cld *cloudinary.Cloudinary) StorageService {
	return &CloudinaryStorageService{cld: cld}
}

// UploadWalkPhoto uploads a checkpoint photo into the booking's folder and
// returns the permanent identifier together with the delivery URL.
func (s *CloudinaryStorageService) UploadWalkPhoto(ctx context.Context, localFilePath, bookingID string, kind models.PhotoKind) (*UploadedPhoto, error) {
	uploadParams := uploader.UploadParams{
		Folder: fmt.Sprintf("walks/%s", bookingID),
		Tags:   []string{"walk-checkpoint", strings.ToLower(string(kind))},
	}
	result, err := s.cld.Upload.Upload(ctx, localFilePath, uploadParams)
	if err != nil {
		return nil, fmt.Errorf("failed to upload walk photo: %w", err)
	}
	if result.PublicID == "" {
		return nil, fmt.Errorf("no public ID returned for walk photo")
	}
	return &UploadedPhoto{
		PublicID: result.PublicID,
		URL:      result.SecureURL,
	}, nil
}

// DeleteFile deletes a stored photo given its public ID.
func (s *CloudinaryStorageService) DeleteFile(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete file %s: %w", publicID, err)
	}
	return nil
}

// GetDownloadURL constructs the public delivery URL for a stored photo.
func (s *CloudinaryStorageService) GetDownloadURL(ctx context.Context, publicID string) (string, error) {
	img, err := s.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve asset %s: %w", publicID, err)
	}
	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("failed to build URL for %s: %w", publicID, err)
	}
	return url, nil
}
