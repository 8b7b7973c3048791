// Package storage uploads evidence files and signature images to an object store
// and returns their public URLs.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
)

const (
	DriverLocal    = "local"
	DriverSupabase = "supabase"
)

// Store is the object store seen by the domain services.
type Store interface {
	// Upload writes data to bucket/objectPath and returns the public URL.
	Upload(ctx context.Context, bucket, objectPath string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, bucket, objectPath string) error
}

type Options struct {
	Driver        string
	LocalDir      string
	PublicBaseURL string
	SupabaseURL   string
	ServiceKey    string
}

func New(opts Options) (Store, error) {
	switch opts.Driver {
	case DriverLocal, "":
		return NewLocal(opts.LocalDir, opts.PublicBaseURL), nil
	case DriverSupabase:
		if opts.SupabaseURL == "" || opts.ServiceKey == "" {
			return nil, fmt.Errorf("supabase storage requires url and service key")
		}
		return NewSupabase(opts.SupabaseURL, opts.ServiceKey), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", opts.Driver)
	}
}

// cleanObjectPath rejects empty paths and any attempt to climb out of the bucket.
func cleanObjectPath(bucket, objectPath string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) {
		return "", fmt.Errorf("invalid bucket %q", bucket)
	}
	cleaned := path.Clean("/" + objectPath)
	if cleaned == "/" || strings.Contains(objectPath, "..") {
		return "", fmt.Errorf("invalid object path %q", objectPath)
	}
	return strings.TrimPrefix(cleaned, "/"), nil
}
