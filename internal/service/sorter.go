package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"photo-sorter/internal/metadata"

	"github.com/rs/zerolog"
)

// FileOrganizer interface for dependency injection
type FileOrganizer interface {
	Organize(ctx context.Context, path, base string) (Placement, error)
}

// Summary counts what a Sort run did.
type Summary struct {
	Moved   int
	Planned int
	Skipped int
	Folders map[string]int
}

func (s *Summary) record(p Placement) {
	if p.Moved {
		s.Moved++
	} else {
		s.Planned++
	}
	s.Folders[p.Folder]++
}

// SorterService sorts every JPEG directly inside a directory
type SorterService struct {
	organizer FileOrganizer
	log       zerolog.Logger
}

// NewSorterService creates a new sorter service
func NewSorterService(organizer FileOrganizer, log zerolog.Logger) *SorterService {
	return &SorterService{organizer: organizer, log: log}
}

// IsJPEG reports whether name ends in ".jpg", ignoring case.
func IsJPEG(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".jpg")
}

// regularFile reports whether entry is a regular file or a symlink to one.
func regularFile(dir string, entry os.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		return err == nil && info.Mode().IsRegular()
	}
	return entry.Type().IsRegular()
}

// Sort organizes the JPEG files of dir into subfolders of dir, one file at a time.
// Subdirectories are not descended into; symlinks to files are moved as links. Photos with unreadable metadata are skipped;
// any other error stops the run and is returned together with the counts so far.
func (s *SorterService) Sort(ctx context.Context, dir string) (Summary, error) {
	summary := Summary{Folders: make(map[string]int)}
	s.log.Info().Str("folder", dir).Msg("start")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return summary, fmt.Errorf("service: read folder %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !IsJPEG(entry.Name()) || !regularFile(dir, entry) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("service: sort interrupted: %w", err)
		}

		p, err := s.organizer.Organize(ctx, filepath.Join(dir, entry.Name()), dir)
		if errors.Is(err, metadata.ErrMalformedMetadata) {
			s.log.Error().Err(err).Str("file", entry.Name()).Msg("skipped photo with unreadable metadata")
			summary.Skipped++
			continue
		}
		if err != nil {
			return summary, err
		}
		summary.record(p)
	}

	s.log.Info().
		Str("folder", dir).
		Int("moved", summary.Moved).
		Int("planned", summary.Planned).
		Int("skipped", summary.Skipped).
		Interface("folders", summary.Folders).
		Msg("completed")
	return summary, nil
}
