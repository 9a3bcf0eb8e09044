package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"photo-sorter/internal/geocoder"
	"photo-sorter/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"
)

// ReverseGeocoder interface for dependency injection
type ReverseGeocoder interface {
	Name() string
	Reverse(ctx context.Context, c models.Coordinate) (*models.Address, error)
}

// ResolutionKind distinguishes the outcomes of a place lookup.
type ResolutionKind int

const (
	ResolutionSuccess ResolutionKind = iota
	ResolutionTimeout
	ResolutionFailure
)

// Resolution is the outcome of one reverse lookup: a folder name, a timeout, or a failure.
type Resolution struct {
	Kind ResolutionKind
	Name string
	Err  error
}

// PlaceResolverService turns coordinates into folder names
type PlaceResolverService struct {
	geocoder ReverseGeocoder
	log      zerolog.Logger
}

// NewPlaceResolverService creates a new place resolver service
func NewPlaceResolverService(g ReverseGeocoder, log zerolog.Logger) *PlaceResolverService {
	return &PlaceResolverService{geocoder: g, log: log}
}

// Lookup queries the geocoder once. It does not retry and does not cache.
func (s *PlaceResolverService) Lookup(ctx context.Context, c models.Coordinate) Resolution {
	if !c.Valid() {
		return Resolution{Kind: ResolutionFailure, Err: fmt.Errorf("service: invalid coordinate %s", c)}
	}

	addr, err := s.geocoder.Reverse(ctx, c)
	switch {
	case errors.Is(err, geocoder.ErrTimeout):
		return Resolution{Kind: ResolutionTimeout, Err: err}
	case err != nil:
		return Resolution{Kind: ResolutionFailure, Err: err}
	}

	return Resolution{Kind: ResolutionSuccess, Name: FolderName(addr, c)}
}

// Resolve returns the folder name for c. It never fails: timeouts and errors fall back
// to the coordinate itself.
func (s *PlaceResolverService) Resolve(ctx context.Context, c models.Coordinate) string {
	res := s.Lookup(ctx, c)

	switch res.Kind {
	case ResolutionTimeout:
		s.log.Warn().
			Str("geocoder", s.geocoder.Name()).
			Float64("lat", c.Latitude).
			Float64("lon", c.Longitude).
			Msg("geocoder timeout")
	case ResolutionFailure:
		s.log.Error().
			Err(res.Err).
			Str("geocoder", s.geocoder.Name()).
			Float64("lat", c.Latitude).
			Float64("lon", c.Longitude).
			Msg("reverse geocode error")
	default:
		s.log.Debug().Str("folder", res.Name).Str("coordinate", c.String()).Msg("place resolved")
	}

	return FolderFor(c, res)
}

// FolderFor maps a resolution to a folder name.
func FolderFor(c models.Coordinate, res Resolution) string {
	if res.Kind == ResolutionSuccess && res.Name != "" {
		return res.Name
	}
	return c.Key()
}

// FolderName builds "{city}_{district}_{road}", "{city}_{district}" or "{lat}_{lon}",
// whichever the address supports first.
func FolderName(addr *models.Address, c models.Coordinate) string {
	var a models.Address
	if addr != nil {
		a = *addr
	}

	road, city, district := a.Road, a.Locality(), a.District()

	var name string
	switch {
	case road != "":
		name = city + "_" + district + "_" + road
	case city != "" || district != "":
		name = city + "_" + district
	default:
		name = c.Key()
	}

	return sanitizeFolder(name)
}

var folderReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_")

// sanitizeFolder keeps the name a single path element in NFC form, so Korean names
// read from an NFD filesystem compare equal to fresh geocoder output.
func sanitizeFolder(name string) string {
	return norm.NFC.String(folderReplacer.Replace(name))
}
