package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/kafaa-plus/kafaa-maintenance-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFileHeader creates a mock multipart.FileHeader for testing
func createTestFileHeader(filename string, size int64, content []byte) *multipart.FileHeader {
	// Create a buffer to write our multipart form
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	// Create form file
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, _ := writer.CreatePart(h)
	part.Write(content)
	writer.Close()

	// Parse the multipart form
	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content)) + 1024)
	defer form.RemoveAll()

	if len(form.File["file"]) > 0 {
		fileHeader := form.File["file"][0]
		// Override size for testing purposes
		fileHeader.Size = size
		return fileHeader
	}

	return nil
}

func TestValidateMediaFile_Success(t *testing.T) {
	tests := []string{"photo.png", "photo.jpg", "photo.jpeg", "clip.mp4", "clip.mov"}

	for _, filename := range tests {
		t.Run(filename, func(t *testing.T) {
			content := []byte("fake media content")
			fileHeader := createTestFileHeader(filename, int64(len(content)), content)
			require.NotNil(t, fileHeader)

			assert.NoError(t, ValidateMediaFile(fileHeader))
		})
	}
}

func TestValidateMediaFile_FileTooLarge(t *testing.T) {
	// 51MB exceeds the 50MB limit
	content := []byte("fake video content")
	fileHeader := createTestFileHeader("large.mp4", 51*1024*1024, content)
	require.NotNil(t, fileHeader)

	err := ValidateMediaFile(fileHeader)
	assert.Error(t, err)

	fileErr, ok := err.(*FileUploadError)
	require.True(t, ok, "Error should be of type FileUploadError")
	assert.Equal(t, "FILE_TOO_LARGE", fileErr.Code)
	assert.Contains(t, fileErr.Message, "File size exceeds maximum allowed size")
}

func TestValidateMediaFile_InvalidFormat(t *testing.T) {
	tests := []string{"anim.gif", "doc.pdf", "noextension"}

	for _, filename := range tests {
		t.Run(filename, func(t *testing.T) {
			content := []byte("fake content")
			fileHeader := createTestFileHeader(filename, int64(len(content)), content)
			require.NotNil(t, fileHeader)

			err := ValidateMediaFile(fileHeader)
			assert.Error(t, err)

			fileErr, ok := err.(*FileUploadError)
			require.True(t, ok, "Error should be of type FileUploadError")
			assert.Equal(t, "INVALID_FILE_FORMAT", fileErr.Code)
		})
	}
}

func TestValidateMediaFile_CaseInsensitive(t *testing.T) {
	content := []byte("fake png content")
	fileHeader := createTestFileHeader("photo.PNG", int64(len(content)), content)
	require.NotNil(t, fileHeader)

	assert.NoError(t, ValidateMediaFile(fileHeader), "Validation should be case-insensitive")
}

func TestMediaTypeForFile(t *testing.T) {
	tests := []struct {
		filename  string
		mediaType string
	}{
		{"photo.png", models.MediaTypeImage},
		{"photo.JPG", models.MediaTypeImage},
		{"clip.mp4", models.MediaTypeVideo},
		{"clip.mov", models.MediaTypeVideo},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			content := []byte("fake content")
			fileHeader := createTestFileHeader(tt.filename, int64(len(content)), content)
			require.NotNil(t, fileHeader)

			mediaType, err := MediaTypeForFile(fileHeader)
			assert.NoError(t, err)
			assert.Equal(t, tt.mediaType, mediaType)
		})
	}
}

func TestMediaTypeForFile_Unknown(t *testing.T) {
	content := []byte("fake content")
	fileHeader := createTestFileHeader("doc.pdf", int64(len(content)), content)
	require.NotNil(t, fileHeader)

	_, err := MediaTypeForFile(fileHeader)
	assert.Error(t, err)
}

func TestFileUploadError_Error(t *testing.T) {
	err := &FileUploadError{
		Code:    "TEST_CODE",
		Message: "Test error message",
	}

	assert.Equal(t, "Test error message", err.Error())
}
