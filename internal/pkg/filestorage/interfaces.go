package filestorage

import "mime/multipart"

// ImageReader turns an uploaded image into the bytes stored with its owning row
type ImageReader interface {
	// ReadImage returns nil, nil when no file was uploaded
	ReadImage(fileHeader *multipart.FileHeader) ([]byte, error)
}
