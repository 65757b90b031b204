package services

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"zaffira/internal/apperr"
)

const maxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

type ImageService struct {
	store ImageStore
	log   *zap.Logger
}

func NewImageService(store ImageStore, log *zap.Logger) *ImageService {
	return &ImageService{store: store, log: log.Named("uploads")}
}

// Upload checks the extension and size of an uploaded file and stores it
// under a fresh name. It returns the public url.
func (s *ImageService) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return "", apperr.BadRequest("image file extension is required")
	}
	contentType, ok := allowedImageTypes[extension]
	if !ok {
		return "", apperr.BadRequest("unsupported image type: " + extension)
	}
	if file.Size > maxImageSize {
		return "", apperr.BadRequest("image file too large (max 5MB)")
	}

	src, err := file.Open()
	if err != nil {
		return "", apperr.Wrap(apperr.KindBadRequest, "could not read image", err)
	}
	defer src.Close()

	name := primitive.NewObjectID().Hex() + extension
	url, err := s.store.Save(ctx, name, src, file.Size, contentType)
	if err != nil {
		s.log.Error("image store failed", zap.String("name", name), zap.Error(err))
		return "", apperr.Internal(err)
	}
	s.log.Info("image uploaded", zap.String("url", url), zap.Int64("size", file.Size))
	return url, nil
}
