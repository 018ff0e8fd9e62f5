// Package cloudinary stores course documents and submission attachments
// on Cloudinary. It satisfies the uploader contract the document service
// depends on, so local or S3-backed stores can replace it without touching
// the service layer.
package cloudinary

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// defaultFolder keeps institution assets out of the account root when no
// folder is configured.
const defaultFolder = "academica/documents"

// Config carries the Cloudinary account credentials and the folder that
// scopes this deployment's assets.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Store uploads academic documents to Cloudinary and hands back the
// secure URL that gets persisted on the document record.
type Store struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New validates the credentials and opens a Cloudinary client.
func New(cfg Config, logger zerolog.Logger) (*Store, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	folder := strings.Trim(cfg.Folder, "/")
	if folder == "" {
		folder = defaultFolder
	}

	return &Store{
		client: client,
		folder: folder,
		logger: logger.With().Str("component", "asset_store").Logger(),
	}, nil
}

// Upload pushes the file under a collision-free public ID derived from the
// original filename and returns the secure URL.
func (s *Store) Upload(ctx context.Context, filename string, reader io.Reader) (string, error) {
	publicID := documentPublicID(filename)

	result, err := s.client.Upload.Upload(ctx, reader, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("failed to store document asset: %w", err)
	}

	s.logger.Info().
		Str("public_id", result.PublicID).
		Int("bytes", result.Bytes).
		Msg("document asset stored")

	return result.SecureURL, nil
}

// documentPublicID slugs the filename and appends a random suffix so that
// repeated uploads of the same syllabus or submission never overwrite each
// other.
func documentPublicID(filename string) string {
	slug := strings.TrimSuffix(filename, filepath.Ext(filename))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "document"
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return slug + "-" + suffix
}
