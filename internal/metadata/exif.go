package metadata

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"photo-sorter/internal/models"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// TagStrategy reads the GPS fields through goexif's named tag lookup.
type TagStrategy struct{}

func (TagStrategy) Name() string { return "exif-tags" }

func (TagStrategy) Lookup(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("metadata: open %s: %w", path, err)
	}
	defer f.Close()

	x, res := decodeExif(f)
	if x == nil {
		return res, nil
	}

	lat, err := namedDMS(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	if err != nil {
		return tagFailure(err), nil
	}
	lon, err := namedDMS(x, exif.GPSLongitude, exif.GPSLongitudeRef)
	if err != nil {
		return tagFailure(err), nil
	}

	return Found(models.Coordinate{Latitude: lat.Decimal(), Longitude: lon.Decimal()}), nil
}

func namedDMS(x *exif.Exif, val, ref exif.FieldName) (models.DMS, error) {
	v, err := x.Get(val)
	if err != nil {
		return models.DMS{}, err
	}
	r, err := x.Get(ref)
	if err != nil {
		return models.DMS{}, err
	}
	return tagDMS(v, r)
}

func tagFailure(err error) Result {
	if exif.IsTagNotPresentError(err) {
		return NotPresent()
	}
	return Malformed("%v", err)
}

// decodeExif returns the parsed EXIF block, or nil and the Result explaining why there is none.
func decodeExif(r io.Reader) (*exif.Exif, Result) {
	x, err := exif.Decode(r)
	switch {
	case err == nil:
		return x, Result{}
	case noExifBlock(err):
		return nil, NotPresent()
	case x != nil && !exif.IsCriticalError(err):
		// Some sub-IFD failed to parse; the rest is usable.
		return x, Result{}
	default:
		return nil, Malformed("%v", err)
	}
}

// noExifBlock reports whether the decoder ran out of input before finding an APP1
// segment, or found an APP1 segment that is not EXIF (e.g. XMP).
func noExifBlock(err error) bool {
	return errors.Is(err, io.EOF) || strings.Contains(err.Error(), "exif intro marker")
}

// tagDMS converts a 3-component RATIONAL tag and its ASCII reference tag.
func tagDMS(val, ref *tiff.Tag) (models.DMS, error) {
	if val.Count < 3 {
		return models.DMS{}, fmt.Errorf("tag 0x%04x has %d components, want 3", val.Id, val.Count)
	}

	var parts [3]models.Rational
	for i := range parts {
		num, den, err := val.Rat2(i)
		if err != nil {
			return models.DMS{}, fmt.Errorf("tag 0x%04x component %d: %w", val.Id, i, err)
		}
		parts[i] = models.Rational{Num: num, Den: den}
	}

	s, err := ref.StringVal()
	if err != nil {
		return models.DMS{}, fmt.Errorf("tag 0x%04x: %w", ref.Id, err)
	}

	return models.DMS{Degrees: parts[0], Minutes: parts[1], Seconds: parts[2], Ref: s}, nil
}
