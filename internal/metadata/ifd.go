package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"photo-sorter/internal/models"

	"github.com/rwcarlsen/goexif/tiff"
)

// gpsInfoTag is the IFD0 pointer to the GPS sub-IFD (34853).
const gpsInfoTag = 0x8825

var gpsTagNames = map[uint16]string{
	0x00: "GPSVersionID",
	0x01: "GPSLatitudeRef",
	0x02: "GPSLatitude",
	0x03: "GPSLongitudeRef",
	0x04: "GPSLongitude",
	0x05: "GPSAltitudeRef",
	0x06: "GPSAltitude",
	0x07: "GPSTimeStamp",
	0x08: "GPSSatellites",
	0x09: "GPSStatus",
	0x0A: "GPSMeasureMode",
	0x0B: "GPSDOP",
	0x0C: "GPSSpeedRef",
	0x0D: "GPSSpeed",
	0x0E: "GPSTrackRef",
	0x0F: "GPSTrack",
	0x10: "GPSImgDirectionRef",
	0x11: "GPSImgDirection",
	0x12: "GPSMapDatum",
	0x13: "GPSDestLatitudeRef",
	0x14: "GPSDestLatitude",
	0x15: "GPSDestLongitudeRef",
	0x16: "GPSDestLongitude",
	0x17: "GPSDestBearingRef",
	0x18: "GPSDestBearing",
	0x19: "GPSDestDistanceRef",
	0x1A: "GPSDestDistance",
	0x1B: "GPSProcessingMethod",
	0x1C: "GPSAreaInformation",
	0x1D: "GPSDateStamp",
	0x1E: "GPSDifferential",
	0x1F: "GPSHPositioningError",
}

// GPSTagName maps a raw GPS IFD tag id to its EXIF name, or a hex literal for unknown ids.
func GPSTagName(id uint16) string {
	if name, ok := gpsTagNames[id]; ok {
		return name
	}
	return fmt.Sprintf("0x%04x", id)
}

// IFDStrategy reads the JPEG segments itself, decodes the TIFF structure of the
// Exif APP1 segment, follows tag 34853 from IFD0 to the GPS sub-IFD and reads the
// tags it finds there by id.
type IFDStrategy struct{}

func (IFDStrategy) Name() string { return "gps-ifd" }

func (IFDStrategy) Lookup(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("metadata: open %s: %w", path, err)
	}
	defer f.Close()

	raw, err := exifSegment(f)
	if errors.Is(err, errNotJPEG) {
		return NotPresent(), nil
	}
	if err != nil {
		return Malformed("%v", err), nil
	}
	if raw == nil {
		return NotPresent(), nil
	}

	t, err := tiff.Decode(bytes.NewReader(raw))
	if err != nil {
		return Malformed("%v", err), nil
	}
	if len(t.Dirs) == 0 {
		return NotPresent(), nil
	}

	tags, err := gpsTags(t, raw)
	if err != nil {
		return Malformed("%v", err), nil
	}
	if tags == nil {
		return NotPresent(), nil
	}

	lat, ok, err := pairDMS(tags, "GPSLatitude", "GPSLatitudeRef")
	if err != nil {
		return Malformed("%v", err), nil
	}
	if !ok {
		return NotPresent(), nil
	}
	lon, ok, err := pairDMS(tags, "GPSLongitude", "GPSLongitudeRef")
	if err != nil {
		return Malformed("%v", err), nil
	}
	if !ok {
		return NotPresent(), nil
	}

	return Found(models.Coordinate{Latitude: lat.Decimal(), Longitude: lon.Decimal()}), nil
}

// gpsTags returns the GPS sub-IFD keyed by tag name, or nil when IFD0 has no GPS pointer.
func gpsTags(t *tiff.Tiff, raw []byte) (map[string]*tiff.Tag, error) {
	var ptr *tiff.Tag
	for _, tag := range t.Dirs[0].Tags {
		if tag.Id == gpsInfoTag {
			ptr = tag
			break
		}
	}
	if ptr == nil {
		return nil, nil
	}

	off, err := ptr.Int64(0)
	if err != nil {
		return nil, fmt.Errorf("gps pointer: %w", err)
	}
	if off <= 0 || off >= int64(len(raw)) {
		return nil, fmt.Errorf("gps pointer offset %d outside %d byte block", off, len(raw))
	}

	r := bytes.NewReader(raw)
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek gps ifd: %w", err)
	}
	dir, _, err := tiff.DecodeDir(r, t.Order)
	if err != nil {
		return nil, fmt.Errorf("decode gps ifd: %w", err)
	}

	tags := make(map[string]*tiff.Tag, len(dir.Tags))
	for _, tag := range dir.Tags {
		tags[GPSTagName(tag.Id)] = tag
	}
	return tags, nil
}

func pairDMS(tags map[string]*tiff.Tag, val, ref string) (models.DMS, bool, error) {
	v, ok := tags[val]
	if !ok {
		return models.DMS{}, false, nil
	}
	r, ok := tags[ref]
	if !ok {
		return models.DMS{}, false, nil
	}
	dms, err := tagDMS(v, r)
	if err != nil {
		return models.DMS{}, false, err
	}
	return dms, true, nil
}
