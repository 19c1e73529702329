package util

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GenerateObjectKey builds a unique storage key for an uploaded file,
// e.g. posts/2f6c1a... .jpg. The original name only contributes its extension.
func GenerateObjectKey(prefix, originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return prefix + "/" + uuid.New().String() + ext
}

// IsValidObjectKey rejects keys that could escape the storage root.
func IsValidObjectKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	if strings.Contains(key, "..") {
		return false
	}
	return true
}
