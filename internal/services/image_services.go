package services

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

var ErrNotAnImage = errors.New("file is not a valid image")

// thumbnailMaxDim is the bounding box for generated thumbnails.
const thumbnailMaxDim = 500

// ImageService stores uploaded product images on disk and derives
// thumbnails for catalog listings.
type ImageService struct {
	Dir    string
	Logger *zap.Logger
}

func NewImageService(dir string, logger *zap.Logger) (*ImageService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &ImageService{Dir: dir, Logger: logger}, nil
}

// Save validates and writes the uploaded image plus a thumbnail, and
// returns the server-relative URLs to store on the product. Images
// already within the thumbnail bounds are reused as their own
// thumbnail instead of being resampled.
func (s *ImageService) Save(data []byte, originalName string) (imageURL, thumbnailURL string, err error) {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", fmt.Errorf("%w: detected %s", ErrNotAnImage, contentType)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".jpg"
	}
	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	originalFile := "original_" + name
	thumbnailFile := "thumbnail_" + name

	if err := os.WriteFile(filepath.Join(s.Dir, originalFile), data, 0o644); err != nil {
		return "", "", fmt.Errorf("save image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= thumbnailMaxDim && bounds.Dy() <= thumbnailMaxDim {
		if err := os.WriteFile(filepath.Join(s.Dir, thumbnailFile), data, 0o644); err != nil {
			return "", "", fmt.Errorf("save thumbnail: %w", err)
		}
	} else {
		thumb := imaging.Fit(img, thumbnailMaxDim, thumbnailMaxDim, imaging.Lanczos)
		if err := imaging.Save(thumb, filepath.Join(s.Dir, thumbnailFile)); err != nil {
			return "", "", fmt.Errorf("save thumbnail: %w", err)
		}
	}

	s.Logger.Info("stored product image",
		zap.String("file", originalFile),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()),
	)
	return "/images/" + originalFile, "/images/" + thumbnailFile, nil
}
