package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"photo-sorter/internal/models"

	"github.com/rs/zerolog"
)

// NoGPSFolder receives photos without readable GPS coordinates.
const NoGPSFolder = "No_GPS"

// GPSExtractor interface for dependency injection
type GPSExtractor interface {
	Extract(path string) (models.Coordinate, bool, error)
}

// PlaceResolver interface for dependency injection
type PlaceResolver interface {
	Resolve(ctx context.Context, c models.Coordinate) string
}

// Placement records where a photo went.
type Placement struct {
	Source      string
	Folder      string
	Destination string
	Moved       bool
}

// OrganizerService moves one photo into its place folder
type OrganizerService struct {
	extractor GPSExtractor
	resolver  PlaceResolver
	log       zerolog.Logger
	dryRun    bool
}

// OrganizerOption customizes an OrganizerService.
type OrganizerOption func(*OrganizerService)

// WithDryRun makes Organize log the planned placement without touching the filesystem.
func WithDryRun(dryRun bool) OrganizerOption {
	return func(s *OrganizerService) { s.dryRun = dryRun }
}

// NewOrganizerService creates a new organizer service
func NewOrganizerService(extractor GPSExtractor, resolver PlaceResolver, log zerolog.Logger, opts ...OrganizerOption) *OrganizerService {
	s := &OrganizerService{extractor: extractor, resolver: resolver, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Organize moves path into base/<folder>/<basename>, creating the folder when needed.
// A failed move leaves the created folder behind.
func (s *OrganizerService) Organize(ctx context.Context, path, base string) (Placement, error) {
	coord, found, err := s.extractor.Extract(path)
	if err != nil {
		return Placement{}, fmt.Errorf("service: extract gps: %w", err)
	}

	folder := NoGPSFolder
	if found {
		folder = s.resolver.Resolve(ctx, coord)
	}

	target := filepath.Join(base, folder)
	p := Placement{
		Source:      path,
		Folder:      folder,
		Destination: filepath.Join(target, filepath.Base(path)),
	}

	if s.dryRun {
		s.log.Info().Str("folder", folder).Str("file", filepath.Base(path)).Msg("would move")
		return p, nil
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return p, fmt.Errorf("service: create folder %s: %w", target, err)
	}
	if err := moveFile(path, p.Destination); err != nil {
		return p, fmt.Errorf("service: move %s: %w", path, err)
	}
	p.Moved = true

	s.log.Info().Str("folder", folder).Str("file", filepath.Base(path)).Msg("moved")
	return p, nil
}
