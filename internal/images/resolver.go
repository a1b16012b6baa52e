// Package images builds public URLs for sketch images held in object storage.
package images

import "strings"

// DefaultBucket is the storage bucket sketch images are uploaded to.
const DefaultBucket = "sketch-images"

// PublicURLResolver joins a fixed public base path with image filenames.
type PublicURLResolver struct {
	base string
}

// NewPublicURLResolver creates a resolver for the given base path.
func NewPublicURLResolver(base string) *PublicURLResolver {
	return &PublicURLResolver{base: strings.TrimRight(base, "/")}
}

// StorageBase returns the public object path of bucket on a Supabase-style
// storage endpoint.
func StorageBase(projectURL, bucket string) string {
	if bucket == "" {
		bucket = DefaultBucket
	}
	return strings.TrimRight(projectURL, "/") + "/storage/v1/object/public/" + bucket
}

// Resolve returns base + "/" + filename. An empty filename has no URL.
func (r *PublicURLResolver) Resolve(filename string) string {
	if filename == "" {
		return ""
	}
	return r.base + "/" + filename
}

// Base returns the configured base path.
func (r *PublicURLResolver) Base() string {
	return r.base
}
