package listing

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/servly/servly-api/internal/pkg/imaging"
)

// AttachPhoto processes an uploaded image and stores the resized original
// plus a thumbnail, replacing any previous photo on the listing.
func (s *Service) AttachPhoto(ctx context.Context, providerID, id uuid.UUID, filename string, file io.Reader) (*ListingResponse, error) {
	if !imaging.ValidateType(filename) {
		return nil, ErrUnsupportedPhoto
	}

	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrNotFound
	}
	if l.ProviderID != providerID {
		return nil, ErrNotOwner
	}

	processed, err := s.images.Process(file, filename)
	if err != nil {
		return nil, ErrInvalidPhoto
	}

	// Random object name so replaced photos never collide with CDN caches.
	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	key, thumbKey := imaging.GeneratePaths(id.String(), name)

	if err := s.media.Put(ctx, key, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		return nil, err
	}
	if err := s.media.Put(ctx, thumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		_ = s.media.Delete(ctx, key)
		return nil, err
	}

	url := s.media.URL(key)
	thumbURL := s.media.URL(thumbKey)
	if err := s.store.UpdatePhoto(ctx, id, key, url, thumbURL); err != nil {
		return nil, err
	}

	// Old objects are unreferenced now; removal is best-effort.
	if l.PhotoKey.Valid && l.PhotoKey.String != "" && l.PhotoKey.String != key {
		_ = s.media.Delete(ctx, l.PhotoKey.String)
		_ = s.media.Delete(ctx, thumbKeyFor(l.PhotoKey.String))
	}

	l.PhotoKey = sql.NullString{String: key, Valid: true}
	l.PhotoURL = sql.NullString{String: url, Valid: true}
	l.ThumbnailURL = sql.NullString{String: thumbURL, Valid: true}
	return l.ToResponse(), nil
}

func thumbKeyFor(key string) string {
	ext := filepath.Ext(key)
	return strings.TrimSuffix(key, ext) + "_thumb" + ext
}
