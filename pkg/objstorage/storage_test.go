package objstorage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsImageKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"gallery/before-after-1.jpg", true},
		{"gallery/ceramic.JPEG", true},
		{"gallery/polish.png", true},
		{"gallery/wash.webp", true},
		{"gallery/detail.avif", true},
		{"gallery/notes.txt", false},
		{"gallery/archive.zip", false},
		{"gallery/", false},
		{"gallery/noextension", false},
		{"", false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, isImageKey(tc.key), "key %q", tc.key)
	}
}

func TestNewStorageClient_RequiresEndpoint(t *testing.T) {
	_, err := NewStorageClient("key", "secret", "gallery", "", "https://example.supabase.co/storage/v1/object/public", "")
	assert.Error(t, err)
}
