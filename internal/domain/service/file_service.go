package service

import (
	"context"
	"io"
)

// ImageStorage persists listing photos and returns their public URLs.
type ImageStorage interface {
	UploadImage(ctx context.Context, file io.Reader, contentType string) (string, error)
}
