package storage

import (
	"context"

	"petmily/models"

	"github.com/cloudinary/cloudinary-go/v2"
)

// StorageService stores walk checkpoint photos and hands back delivery URLs.
type StorageService interface {
	UploadWalkPhoto(ctx context.Context, localFilePath, bookingID string, kind models.PhotoKind) (*UploadedPhoto, error)
	DeleteFile(ctx context.Context, publicID string) error
	GetDownloadURL(ctx context.Context, publicID string) (string, error)
}

// UploadedPhoto is the result of a successful checkpoint-photo upload.
type UploadedPhoto struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
}

// CloudinaryStorageService implements StorageService on Cloudinary.
type CloudinaryStorageService struct {
	cld *cloudinary.Cloudinary
}
