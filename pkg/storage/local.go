package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidLocation indicates a stored path escapes the storage root.
var ErrInvalidLocation = errors.New("invalid storage location")

// LocalStore keeps uploaded documents on the local filesystem under a root directory.
// Locations are slash separated paths relative to the root.
type LocalStore struct {
	root   string
	logger zerolog.Logger
	now    func() time.Time
}

// NewLocal prepares the root directory.
func NewLocal(root string, logger zerolog.Logger) (*LocalStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage root must not be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &LocalStore{
		root:   abs,
		logger: logger.With().Str("component", "local_storage").Logger(),
		now:    time.Now,
	}, nil
}

// Upload writes the reader to a unique file and returns its location.
func (s *LocalStore) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "document.bin"
	}
	location := path.Join(s.now().UTC().Format("2006/01"), uuid.NewString()+"-"+base)

	full, err := s.resolve(location)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create storage directory: %w", err)
	}

	file, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create stored file: %w", err)
	}

	written, copyErr := io.Copy(file, reader)
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("write stored file: %w", errors.Join(copyErr, closeErr))
	}

	s.logger.Debug().Str("location", location).Int64("bytes", written).Msg("document stored")
	return location, nil
}

// Stat returns file metadata. Missing files yield an error matching fs.ErrNotExist.
func (s *LocalStore) Stat(ctx context.Context, location string) (fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(location)
	if err != nil {
		return nil, err
	}
	return os.Stat(full)
}

// Remove deletes a stored file. Removing a missing file is not an error.
func (s *LocalStore) Remove(ctx context.Context, location string) error {
	full, err := s.resolve(location)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) resolve(location string) (string, error) {
	cleaned := path.Clean("/" + strings.ReplaceAll(location, "\\", "/"))
	if cleaned == "/" {
		return "", ErrInvalidLocation
	}
	full := filepath.Join(s.root, filepath.FromSlash(cleaned))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", ErrInvalidLocation
	}
	return full, nil
}
