package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateObjectKey(t *testing.T) {
	key := GenerateObjectKey("posts", "holiday photo.JPG")

	assert.True(t, strings.HasPrefix(key, "posts/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.True(t, IsValidObjectKey(key))

	// keys must be unique even for the same filename
	other := GenerateObjectKey("posts", "holiday photo.JPG")
	assert.NotEqual(t, key, other)
}

func TestGenerateObjectKeyNoExtension(t *testing.T) {
	key := GenerateObjectKey("avatars", "rawfile")

	assert.True(t, strings.HasPrefix(key, "avatars/"))
	assert.True(t, IsValidObjectKey(key))
}

func TestIsValidObjectKey(t *testing.T) {
	assert.True(t, IsValidObjectKey("posts/abc.jpg"))
	assert.False(t, IsValidObjectKey(""))
	assert.False(t, IsValidObjectKey("/posts/abc.jpg"))
	assert.False(t, IsValidObjectKey("../etc/passwd"))
	assert.False(t, IsValidObjectKey("posts/../../etc/passwd"))
}
