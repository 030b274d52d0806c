package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ObjectStore is a bucket that serves stored objects at public URLs.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	Bucket() string
}

// NewObjectName returns "<uuid>.<ext>" keeping the extension of filename.
func NewObjectName(filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		return uuid.NewString()
	}
	return fmt.Sprintf("%s.%s", uuid.NewString(), strings.ToLower(ext))
}

// KeyFromReference accepts either a bare object key or a public URL produced
// by publicURL for bucket, and returns the object key.
func KeyFromReference(ref, publicBase, bucket string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	prefix := strings.TrimRight(publicBase, "/") + "/" + bucket + "/"
	if strings.HasPrefix(ref, prefix) {
		return strings.TrimPrefix(ref, prefix)
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		marker := "/" + bucket + "/"
		if i := strings.Index(u.Path, marker); i >= 0 {
			return u.Path[i+len(marker):]
		}
		return path.Base(u.Path)
	}
	return strings.TrimPrefix(ref, bucket+"/")
}

func publicURL(base, bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), bucket, key)
}
