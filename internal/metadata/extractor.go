package metadata

import (
	"errors"
	"fmt"

	"photo-sorter/internal/models"

	"github.com/rs/zerolog"
)

// ErrMalformedMetadata is returned when a photo carries EXIF data that no strategy could read
// and none of them found GPS coordinates.
var ErrMalformedMetadata = errors.New("malformed metadata")

// Status tells what a strategy made of a file.
type Status int

const (
	StatusNotPresent Status = iota
	StatusFound
	StatusMalformed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusMalformed:
		return "malformed"
	default:
		return "not_present"
	}
}

// Result is the outcome of one strategy for one file.
type Result struct {
	Status     Status
	Coordinate models.Coordinate
	Detail     string
}

func Found(c models.Coordinate) Result {
	return Result{Status: StatusFound, Coordinate: c}
}

func NotPresent() Result {
	return Result{Status: StatusNotPresent}
}

func Malformed(format string, args ...any) Result {
	return Result{Status: StatusMalformed, Detail: fmt.Sprintf(format, args...)}
}

// Strategy reads GPS coordinates from a photo. The error return is reserved for
// failures to access the file itself; anything wrong with its content is a Result.
type Strategy interface {
	Name() string
	Lookup(path string) (Result, error)
}

// Extractor tries its strategies in order until one finds coordinates.
type Extractor struct {
	strategies []Strategy
	log        zerolog.Logger
}

// NewExtractor creates an extractor. Without explicit strategies it uses the EXIF tag
// reader first and the raw GPS IFD walk second.
func NewExtractor(log zerolog.Logger, strategies ...Strategy) *Extractor {
	if len(strategies) == 0 {
		strategies = []Strategy{TagStrategy{}, IFDStrategy{}}
	}
	return &Extractor{strategies: strategies, log: log}
}

// Extract returns the photo's coordinate and true, or false when no strategy found one.
// When at least one strategy reported malformed data and none succeeded the error
// wraps ErrMalformedMetadata.
func (e *Extractor) Extract(path string) (models.Coordinate, bool, error) {
	var malformed []string

	for _, s := range e.strategies {
		res, err := s.Lookup(path)
		if err != nil {
			return models.Coordinate{}, false, err
		}

		if res.Status == StatusFound && !res.Coordinate.Valid() {
			res = Malformed("coordinate %s out of range", res.Coordinate)
		}

		switch res.Status {
		case StatusFound:
			e.log.Info().
				Str("strategy", s.Name()).
				Str("file", path).
				Float64("lat", res.Coordinate.Latitude).
				Float64("lon", res.Coordinate.Longitude).
				Msg("GPS found")
			return res.Coordinate, true, nil
		case StatusMalformed:
			e.log.Warn().
				Str("strategy", s.Name()).
				Str("file", path).
				Str("detail", res.Detail).
				Msg("GPS metadata unreadable")
			malformed = append(malformed, s.Name()+": "+res.Detail)
		}
	}

	if len(malformed) > 0 {
		return models.Coordinate{}, false, fmt.Errorf("metadata: %s: %w: %v", path, ErrMalformedMetadata, malformed)
	}

	e.log.Warn().Str("file", path).Msg("no GPS found")
	return models.Coordinate{}, false, nil
}
