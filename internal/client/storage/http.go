package storage

import (
	"context"
	"mime"
	"net/url"
	"path"

	"github.com/dmitrijs2005/zeroos/internal/client/models"
	"github.com/dmitrijs2005/zeroos/internal/netx"
)

func (s *Store) readHTTP(ctx context.Context, ref string) (models.Source, error) {
	data, contentType, err := netx.Fetch(ctx, s.http, ref)
	if err != nil {
		return models.Source{}, err
	}

	name := "download"
	if u, err := url.Parse(ref); err == nil {
		if base := path.Base(u.Path); base != "/" && base != "." {
			name = base
		}
	}

	mediaType := ""
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			mediaType = mt
		}
	}

	return models.Source{Name: name, MediaType: mediaType, Data: data}, nil
}
