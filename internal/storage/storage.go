package storage

import (
	"errors"
	"mime/multipart"
)

// ErrPresignUnsupported is returned by backends that cannot issue
// time-limited upload URLs; callers fall back to direct upload.
var ErrPresignUnsupported = errors.New("storage: presigned uploads not supported")

// Storage is the object store behind post images and avatars. Objects are
// addressed by key (e.g. posts/<uuid>.jpg).
type Storage interface {
	UploadFile(file *multipart.FileHeader, key string) (string, error)
	DeleteFile(key string) error
	// PresignUpload returns a URL the client can PUT the object to directly.
	PresignUpload(key, contentType string) (string, error)
	// FileURL returns the public URL for a stored object.
	FileURL(key string) string
}
