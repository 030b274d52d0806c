package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/ChanaPCN/parkify-app/internal/models"
	"github.com/ChanaPCN/parkify-app/internal/storage"
)

type ProfilePicStore interface {
	UpdateProfilePic(ctx context.Context, id int, url string) error
}

type ImageUpload struct {
	LessorID     int
	OldImagePath string
	Filename     string
	ContentType  string
	Size         int64
	Body         io.Reader
}

type UploadService struct {
	Store         storage.ObjectStore
	PublicBaseURL string
	Lessors       ProfilePicStore
	Idempotency   *IdempotencyStore
	ErrorLog      *log.Logger
}

// ReplaceLessorImage deletes the old image, uploads the new one and points the
// lessor row at it, in that order. A failed delete aborts before anything is
// uploaded. A failed row update removes the object that was just uploaded; the
// old image is not restored.
func (s *UploadService) ReplaceLessorImage(ctx context.Context, idemKey string, up ImageUpload) (models.ImageUploadResult, error) {
	scope := "lessor-image:" + strconv.Itoa(up.LessorID)
	return Idempotent(ctx, s.Idempotency, scope, idemKey, func() (models.ImageUploadResult, error) {
		return s.replace(ctx, up)
	})
}

func (s *UploadService) replace(ctx context.Context, up ImageUpload) (models.ImageUploadResult, error) {
	if old := storage.KeyFromReference(up.OldImagePath, s.PublicBaseURL, s.Store.Bucket()); old != "" {
		if err := s.Store.Delete(ctx, old); err != nil {
			return models.ImageUploadResult{}, fmt.Errorf("%w: %s: %v", models.ErrStorageDelete, old, err)
		}
	}

	key := storage.NewObjectName(up.Filename)
	if err := s.Store.Put(ctx, key, up.Body, up.Size, up.ContentType); err != nil {
		return models.ImageUploadResult{}, fmt.Errorf("%w: %s: %v", models.ErrStorageUpload, key, err)
	}

	url := s.Store.PublicURL(key)
	if err := s.Lessors.UpdateProfilePic(ctx, up.LessorID, url); err != nil {
		if derr := s.Store.Delete(ctx, key); derr != nil && s.ErrorLog != nil {
			s.ErrorLog.Printf("remove orphaned image %s: %v", key, derr)
		}
		return models.ImageUploadResult{}, err
	}

	return models.ImageUploadResult{PublicURL: url, LessorID: up.LessorID}, nil
}
