// Package blobstore persists inbound media by copying it from the
// provider's media URL into the campaign bucket over HTTP.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store implements the flow manager's MediaStore port.
type Store struct {
	bucketURL string
	username  string
	password  string
	client    *http.Client
	logger    zerolog.Logger
}

// New creates a store writing under bucketURL. The credentials authorize
// fetching media from the provider's URLs.
func New(bucketURL, username, password string, logger zerolog.Logger) *Store {
	return &Store{
		bucketURL: strings.TrimRight(bucketURL, "/"),
		username:  username,
		password:  password,
		client:    &http.Client{Timeout: 30 * time.Second},
		logger:    logger.With().Str("service", "blobstore").Logger(),
	}
}

// Save copies each media object into the bucket and returns the stored
// URL of the first one, which becomes the participation's document
// reference.
func (s *Store) Save(ctx context.Context, participationID uuid.UUID, urls []string) (string, error) {
	if len(urls) == 0 {
		return "", fmt.Errorf("no media to save")
	}

	var first string
	for i, mediaURL := range urls {
		dest := fmt.Sprintf("%s/%s/media_%d.jpeg", s.bucketURL, participationID, i)
		if err := s.copy(ctx, mediaURL, dest); err != nil {
			return "", err
		}
		if i == 0 {
			first = dest
		}
	}

	s.logger.Debug().
		Str("participation_id", participationID.String()).
		Int("count", len(urls)).
		Msg("media persisted")
	return first, nil
}

func (s *Store) copy(ctx context.Context, src, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return err
	}
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch media %s: %s", src, resp.Status)
	}

	put, err := http.NewRequestWithContext(ctx, http.MethodPut, dest, resp.Body)
	if err != nil {
		return err
	}
	put.Header.Set("Content-Type", resp.Header.Get("Content-Type"))
	if resp.ContentLength > 0 {
		put.ContentLength = resp.ContentLength
	}

	stored, err := s.client.Do(put)
	if err != nil {
		return err
	}
	defer stored.Body.Close()
	if stored.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(stored.Body, 4096))
		return fmt.Errorf("store media %s: %s: %s", dest, stored.Status, strings.TrimSpace(string(body)))
	}
	return nil
}
