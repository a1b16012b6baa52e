package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURLResolver_Resolve(t *testing.T) {
	r := NewPublicURLResolver("https://cdn.example.com/sketches/")

	assert.Equal(t, "https://cdn.example.com/sketches", r.Base())
	assert.Equal(t, "https://cdn.example.com/sketches/x.png", r.Resolve("x.png"))
	assert.Equal(t, "", r.Resolve(""))
}

func TestStorageBase(t *testing.T) {
	tests := []struct {
		name    string
		project string
		bucket  string
		want    string
	}{
		{
			name:    "default bucket",
			project: "https://abc.supabase.co",
			want:    "https://abc.supabase.co/storage/v1/object/public/sketch-images",
		},
		{
			name:    "custom bucket and trailing slash",
			project: "https://abc.supabase.co/",
			bucket:  "flash",
			want:    "https://abc.supabase.co/storage/v1/object/public/flash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StorageBase(tt.project, tt.bucket))
		})
	}
}
