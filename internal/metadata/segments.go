package metadata

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	exifHeader = []byte("Exif\x00\x00")

	errNotJPEG = errors.New("not a JPEG stream")
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP1 = 0xE1
)

// exifSegment scans the JPEG markers up to the start of scan and returns the TIFF
// bytes of the first APP1 segment carrying an Exif header. APP1 segments holding
// anything else (XMP) are skipped. It returns nil, nil when there is no such segment.
func exifSegment(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)

	var soi [2]byte
	if _, err := io.ReadFull(br, soi[:]); err != nil || soi[0] != 0xFF || soi[1] != markerSOI {
		return nil, errNotJPEG
	}

	for {
		marker, err := nextMarker(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}

		switch {
		case marker == markerSOS || marker == markerEOI:
			return nil, nil
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			// standalone, no length
			continue
		}

		var size [2]byte
		if _, err := io.ReadFull(br, size[:]); err != nil {
			return nil, fmt.Errorf("segment 0xff%02x: truncated length", marker)
		}
		n := int(binary.BigEndian.Uint16(size[:]))
		if n < 2 {
			return nil, fmt.Errorf("segment 0xff%02x: bad length %d", marker, n)
		}

		if marker != markerAPP1 {
			if _, err := br.Discard(n - 2); err != nil {
				return nil, fmt.Errorf("segment 0xff%02x: truncated", marker)
			}
			continue
		}

		payload := make([]byte, n-2)
		if _, err := io.ReadFull(br, payload); err != nil {
			return nil, errors.New("app1 segment: truncated")
		}
		if bytes.HasPrefix(payload, exifHeader) {
			return payload[len(exifHeader):], nil
		}
	}
}

// nextMarker reads up to and including the next marker byte, skipping fill bytes.
func nextMarker(br *bufio.Reader) (byte, error) {
	b, err := br.ReadByte()
	if err != nil {
		return 0, err
	}
	if b != 0xFF {
		return 0, fmt.Errorf("expected marker, found 0x%02x", b)
	}
	for b == 0xFF {
		if b, err = br.ReadByte(); err != nil {
			return 0, err
		}
	}
	return b, nil
}
