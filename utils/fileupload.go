package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/kafaa-plus/kafaa-maintenance-api/models"
)

const (
	// MaxFileSize is 50MB in bytes, large enough for short videos
	MaxFileSize = 50 * 1024 * 1024
)

// allowedMediaFormats maps accepted file extensions to their media kind.
var allowedMediaFormats = map[string]string{
	".png":  models.MediaTypeImage,
	".jpg":  models.MediaTypeImage,
	".jpeg": models.MediaTypeImage,
	".mp4":  models.MediaTypeVideo,
	".mov":  models.MediaTypeVideo,
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateMediaFile validates the uploaded file format and size
func ValidateMediaFile(fileHeader *multipart.FileHeader) error {
	// Check file size
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedMediaFormats[ext]; !ok {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only PNG, JPG, MP4 and MOV files are allowed",
		}
	}

	return nil
}

// MediaTypeForFile returns the media kind ("image" or "video") for an
// uploaded file, based on its extension.
func MediaTypeForFile(fileHeader *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	mediaType, ok := allowedMediaFormats[ext]
	if !ok {
		return "", &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only PNG, JPG, MP4 and MOV files are allowed",
		}
	}
	return mediaType, nil
}
