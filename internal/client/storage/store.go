// Package storage reads upload sources and writes downloaded artifacts.
// A location is a local path, an s3://bucket/key URL, or (read-only) an
// http(s) URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/dmitrijs2005/zeroos/internal/client/config"
	"github.com/dmitrijs2005/zeroos/internal/client/models"
)

var ErrUnsupported = errors.New("unsupported location")

// Store dispatches reads and writes by location scheme.
type Store struct {
	s3cfg config.S3Config
	http  *http.Client

	mu      sync.Mutex
	objects objectAPI
}

func New(s3cfg config.S3Config, httpClient *http.Client) *Store {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Store{s3cfg: s3cfg, http: httpClient}
}

func scheme(ref string) string {
	u, err := url.Parse(ref)
	if err != nil || len(u.Scheme) < 2 {
		// no scheme, or a Windows drive letter
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// Read loads the payload at ref. MediaType is left empty when the location
// does not declare one.
func (s *Store) Read(ctx context.Context, ref string) (models.Source, error) {
	switch scheme(ref) {
	case "":
		return readLocal(ref)
	case "s3":
		return s.readS3(ctx, ref)
	case "http", "https":
		return s.readHTTP(ctx, ref)
	default:
		return models.Source{}, fmt.Errorf("%w: %s", ErrUnsupported, ref)
	}
}

// Write stores a at ref and returns the final location. A ref naming a
// directory (or an s3 prefix ending in "/") receives a.Name inside it.
func (s *Store) Write(ctx context.Context, ref string, a models.Artifact) (string, error) {
	switch scheme(ref) {
	case "":
		return writeLocal(ref, a)
	case "s3":
		return s.writeS3(ctx, ref, a)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, ref)
	}
}
