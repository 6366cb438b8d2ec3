package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/elevate/clubhub/internal/pkg/apperrors"
	"github.com/elevate/clubhub/internal/pkg/logger"
	"github.com/google/uuid"
)

// ErrFileTooLarge is returned for uploads above the configured limit
var ErrFileTooLarge = errors.New("file too large")

// DefaultAllowedTypes are the accepted image content types
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// UploadReader validates and reads image uploads held in memory
type UploadReader struct {
	maxBytes     int64
	allowedTypes map[string]struct{}
}

// NewUploadReader creates an UploadReader accepting images up to maxMB megabytes
func NewUploadReader(maxMB int, allowedTypes ...string) *UploadReader {
	if len(allowedTypes) == 0 {
		allowedTypes = DefaultAllowedTypes
	}
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = struct{}{}
	}
	return &UploadReader{
		maxBytes:     int64(maxMB) << 20,
		allowedTypes: allowed,
	}
}

// ReadImage reads the uploaded file, checking its size and sniffed content type
func (r *UploadReader) ReadImage(fileHeader *multipart.FileHeader) ([]byte, error) {
	if fileHeader == nil {
		return nil, nil
	}
	if r.maxBytes > 0 && fileHeader.Size > r.maxBytes {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			fmt.Sprintf("%s exceeds the %d MB upload limit", fileHeader.Filename, r.maxBytes>>20))
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	limit := r.maxBytes
	if limit <= 0 {
		limit = fileHeader.Size
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, ErrFileTooLarge.Error())
	}
	if len(data) == 0 {
		return nil, nil
	}

	contentType := http.DetectContentType(data)
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	if _, ok := r.allowedTypes[contentType]; !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			fmt.Sprintf("unsupported image type %s", contentType))
	}

	logger.Debug().
		Str("uploadId", uuid.NewString()).
		Str("filename", fileHeader.Filename).
		Str("contentType", contentType).
		Int("size", len(data)).
		Msg("Image upload accepted")
	return data, nil
}
