// Package testutil builds photo fixtures and captures log output for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"photo-sorter/internal/models"

	"github.com/stretchr/testify/require"
)

// GPS describes the GPS IFD written into a fixture.
type GPS struct {
	LatRef string
	Lat    [3]models.Rational
	LonRef string
	Lon    [3]models.Rational
}

// Whole builds a DMS triple of whole numbers.
func Whole(d, m, s int64) [3]models.Rational {
	return [3]models.Rational{{Num: d, Den: 1}, {Num: m, Den: 1}, {Num: s, Den: 1}}
}

// Seoul is Gwanghwamun, 37°34'12"N 126°58'36"E.
var Seoul = GPS{LatRef: "N", Lat: Whole(37, 34, 12), LonRef: "E", Lon: Whole(126, 58, 36)}

// SeoulCoordinate is Seoul in decimal degrees.
var SeoulCoordinate = models.Coordinate{
	Latitude:  37 + 34.0/60 + 12.0/3600,
	Longitude: 126 + 58.0/60 + 36.0/3600,
}

// PlainJPEG returns a small JPEG without any APP segments.
func PlainJPEG(t testing.TB) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// JPEGWithGPS returns a JPEG whose EXIF block carries the given GPS IFD.
func JPEGWithGPS(t testing.TB, gps GPS) []byte {
	t.Helper()
	return WithAPP1(t, PlainJPEG(t), append([]byte("Exif\x00\x00"), gpsTIFF(gps)...))
}

// JPEGWithoutGPS returns a JPEG with an EXIF block that has no GPS pointer.
func JPEGWithoutGPS(t testing.TB) []byte {
	t.Helper()
	return WithAPP1(t, PlainJPEG(t), append([]byte("Exif\x00\x00"), orientationTIFF()...))
}

// JPEGWithCorruptEXIF returns a JPEG whose EXIF block is not a TIFF structure.
func JPEGWithCorruptEXIF(t testing.TB) []byte {
	t.Helper()
	return WithAPP1(t, PlainJPEG(t), []byte("Exif\x00\x00garbage-not-a-tiff-header"))
}

// WithAPP1 inserts an APP1 segment with the given payload right after SOI.
func WithAPP1(t testing.TB, jpg, payload []byte) []byte {
	t.Helper()
	require.True(t, len(jpg) > 2 && jpg[0] == 0xFF && jpg[1] == 0xD8, "not a JPEG")

	seg := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	seg = append(seg, payload...)

	out := make([]byte, 0, len(jpg)+len(seg))
	out = append(out, jpg[:2]...)
	out = append(out, seg...)
	return append(out, jpg[2:]...)
}

// WriteFile writes data to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

const (
	tiffTypeASCII    = 2
	tiffTypeShort    = 3
	tiffTypeLong     = 4
	tiffTypeRational = 5
)

type ifdEntry struct {
	id, typ uint16
	count   uint32
	value   [4]byte
}

// gpsTIFF lays out: header(8) | IFD0 @8 (1 entry) | GPS IFD @26 (4 entries) | rationals @80.
func gpsTIFF(gps GPS) []byte {
	const (
		gpsIFDOffset = 26
		latOffset    = 80
		lonOffset    = latOffset + 24
	)
	le := binary.LittleEndian

	var ifd0 ifdEntry
	ifd0.id, ifd0.typ, ifd0.count = 0x8825, tiffTypeLong, 1
	le.PutUint32(ifd0.value[:], gpsIFDOffset)

	ascii := func(id uint16, s string) ifdEntry {
		e := ifdEntry{id: id, typ: tiffTypeASCII, count: 2}
		copy(e.value[:], s)
		return e
	}
	rational := func(id uint16, off uint32) ifdEntry {
		e := ifdEntry{id: id, typ: tiffTypeRational, count: 3}
		le.PutUint32(e.value[:], off)
		return e
	}

	var buf bytes.Buffer
	buf.WriteString("II")
	_ = binary.Write(&buf, le, uint16(42))
	_ = binary.Write(&buf, le, uint32(8))
	writeIFD(&buf, ifd0)
	writeIFD(&buf,
		ascii(1, gps.LatRef),
		rational(2, latOffset),
		ascii(3, gps.LonRef),
		rational(4, lonOffset),
	)
	for _, triple := range [][3]models.Rational{gps.Lat, gps.Lon} {
		for _, r := range triple {
			_ = binary.Write(&buf, le, uint32(r.Num))
			_ = binary.Write(&buf, le, uint32(r.Den))
		}
	}
	return buf.Bytes()
}

func orientationTIFF() []byte {
	le := binary.LittleEndian
	e := ifdEntry{id: 0x0112, typ: tiffTypeShort, count: 1}
	le.PutUint16(e.value[:], 1)

	var buf bytes.Buffer
	buf.WriteString("II")
	_ = binary.Write(&buf, le, uint16(42))
	_ = binary.Write(&buf, le, uint32(8))
	writeIFD(&buf, e)
	return buf.Bytes()
}

func writeIFD(buf *bytes.Buffer, entries ...ifdEntry) {
	le := binary.LittleEndian
	_ = binary.Write(buf, le, uint16(len(entries)))
	for _, e := range entries {
		_ = binary.Write(buf, le, e.id)
		_ = binary.Write(buf, le, e.typ)
		_ = binary.Write(buf, le, e.count)
		buf.Write(e.value[:])
	}
	_ = binary.Write(buf, le, uint32(0))
}
