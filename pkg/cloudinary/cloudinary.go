package cloudinary

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// DocumentStore keeps application documents in Cloudinary as private raw or image assets.
type DocumentStore struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary document store.
func New(cfg Config, logger zerolog.Logger) (*DocumentStore, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &DocumentStore{
		client: cld,
		folder: strings.Trim(cfg.Folder, "/"),
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// Upload stores the document and returns its secure URL.
// name is expected as "<document type>/<file name>"; the type becomes a sub folder.
func (s *DocumentStore) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	folder, publicID := s.placement(name)

	params := uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "auto",
		Tags:         []string{"scholarship-application"},
	}

	result, err := s.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload document: %s", result.Error.Message)
	}

	s.logger.Info().Str("public_id", result.PublicID).Int("bytes", result.Bytes).Msg("document uploaded to cloudinary")

	return result.SecureURL, nil
}

func (s *DocumentStore) placement(name string) (string, string) {
	dir, file := path.Split(strings.ReplaceAll(name, "\\", "/"))
	folder := s.folder
	if sub := sanitizeSegment(strings.Trim(dir, "/")); sub != "" {
		folder = strings.Trim(folder+"/"+sub, "/")
	}

	base := strings.TrimSuffix(file, path.Ext(file))
	base = sanitizeSegment(base)
	if base == "" {
		base = "document"
	}
	return folder, base + "-" + uuid.NewString()[:8]
}

func sanitizeSegment(value string) string {
	value = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '-'
	}, value)
	return strings.Trim(value, "-")
}
