package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ImageStorageService keeps uploaded scan images on disk so they can be
// served back from /images/scanned.
type ImageStorageService struct {
	storageDir string
}

func NewImageStorageService() *ImageStorageService {
	storageDir := os.Getenv("SCANNED_IMAGES_DIR")
	if storageDir == "" {
		storageDir = "./data/scanned_images"
	}

	if err := os.MkdirAll(storageDir, 0755); err != nil {
		// Will fail again on the first actual write.
		log.Printf("Warning: could not create scanned images directory: %v", err)
	}

	return &ImageStorageService{
		storageDir: storageDir,
	}
}

// SaveScan writes an uploaded scan image to disk and returns the stored
// filename. The extension follows the upload's MIME type.
func (s *ImageStorageService) SaveScan(imageData []byte, mimeType string) (string, error) {
	if len(imageData) == 0 {
		return "", fmt.Errorf("empty image data")
	}

	filename := uuid.New().String() + extensionForMime(mimeType)
	filePath := filepath.Join(s.storageDir, filename)

	if err := os.WriteFile(filePath, imageData, 0644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	return filename, nil
}

// GetStorageDir returns the storage directory path.
func (s *ImageStorageService) GetStorageDir() string {
	return s.storageDir
}

func extensionForMime(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
