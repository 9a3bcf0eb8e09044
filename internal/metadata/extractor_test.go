package metadata

import (
	"errors"
	"testing"

	"photo-sorter/internal/models"
	"photo-sorter/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStrategy is a mock implementation of the Strategy interface
type MockStrategy struct {
	mock.Mock
	name string
}

func (m *MockStrategy) Name() string { return m.name }

func (m *MockStrategy) Lookup(path string) (Result, error) {
	args := m.Called(path)
	return args.Get(0).(Result), args.Error(1)
}

func TestExtractor_Extract(t *testing.T) {
	seoul := models.Coordinate{Latitude: 37.57, Longitude: 126.9767}

	tests := []struct {
		name           string
		first          Result
		firstErr       error
		second         *Result
		expected       models.Coordinate
		expectFound    bool
		expectError    error
		expectLog      string
		expectLevel    string
		expectStrategy string
	}{
		{
			name:           "first strategy finds coordinates",
			first:          Found(seoul),
			expected:       seoul,
			expectFound:    true,
			expectLog:      "GPS found",
			expectLevel:    "info",
			expectStrategy: "primary",
		},
		{
			name:           "falls back when first reports no tags",
			first:          NotPresent(),
			second:         &Result{Status: StatusFound, Coordinate: seoul},
			expected:       seoul,
			expectFound:    true,
			expectLog:      "GPS found",
			expectLevel:    "info",
			expectStrategy: "fallback",
		},
		{
			name:           "falls back after malformed data",
			first:          Malformed("bad rational"),
			second:         &Result{Status: StatusFound, Coordinate: seoul},
			expected:       seoul,
			expectFound:    true,
			expectLog:      "GPS metadata unreadable",
			expectLevel:    "warn",
			expectStrategy: "primary",
		},
		{
			name:        "nothing found",
			first:       NotPresent(),
			second:      &Result{Status: StatusNotPresent},
			expectFound: false,
			expectLog:   "no GPS found",
			expectLevel: "warn",
		},
		{
			name:        "malformed and nothing found",
			first:       Malformed("bad rational"),
			second:      &Result{Status: StatusNotPresent},
			expectError: ErrMalformedMetadata,
			expectLog:   "GPS metadata unreadable",
			expectLevel: "warn",
		},
		{
			name:        "out of range coordinate is malformed",
			first:       Found(models.Coordinate{Latitude: 123, Longitude: 10}),
			second:      &Result{Status: StatusNotPresent},
			expectError: ErrMalformedMetadata,
			expectLog:   "GPS metadata unreadable",
			expectLevel: "warn",
		},
		{
			name:        "io error stops immediately",
			firstErr:    assert.AnError,
			expectError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			log, sink := testutil.NewLogger()
			primary := &MockStrategy{name: "primary"}
			fallback := &MockStrategy{name: "fallback"}
			primary.On("Lookup", "a.jpg").Return(tt.first, tt.firstErr)
			if tt.second != nil {
				fallback.On("Lookup", "a.jpg").Return(*tt.second, nil)
			}

			// Execute
			coord, found, err := NewExtractor(log, primary, fallback).Extract("a.jpg")

			// Assert
			if tt.expectError != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectError))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectFound, found)
				assert.Equal(t, tt.expected, coord)
			}

			if tt.expectLog != "" {
				entry, ok := sink.Find(tt.expectLevel, tt.expectLog)
				require.True(t, ok, "missing %s %q", tt.expectLevel, tt.expectLog)
				if tt.expectStrategy != "" {
					assert.Equal(t, tt.expectStrategy, entry["strategy"])
				}
			}

			primary.AssertExpectations(t)
			fallback.AssertExpectations(t)
		})
	}
}

func TestExtractor_PrimarySuccessSkipsFallback(t *testing.T) {
	log, sink := testutil.NewLogger()
	path := testutil.WriteFile(t, t.TempDir(), "seoul.jpg", testutil.JPEGWithGPS(t, testutil.Seoul))
	fallback := &MockStrategy{name: "fallback"}

	coord, found, err := NewExtractor(log, TagStrategy{}, fallback).Extract(path)

	require.NoError(t, err)
	assert.True(t, found)
	assert.InDelta(t, testutil.SeoulCoordinate.Latitude, coord.Latitude, 1e-9)
	assert.InDelta(t, testutil.SeoulCoordinate.Longitude, coord.Longitude, 1e-9)
	for _, e := range sink.Entries() {
		assert.NotEqual(t, "fallback", e["strategy"])
	}
	fallback.AssertNotCalled(t, "Lookup", mock.Anything)
}

func TestExtractor_DefaultStrategiesOnPlainJPEG(t *testing.T) {
	log, sink := testutil.NewLogger()
	path := testutil.WriteFile(t, t.TempDir(), "plain.jpg", testutil.PlainJPEG(t))

	_, found, err := NewExtractor(log).Extract(path)

	require.NoError(t, err)
	assert.False(t, found)
	entry, ok := sink.Find("warn", "no GPS found")
	require.True(t, ok)
	assert.Equal(t, path, entry["file"])
}

func TestExtractor_FallsBackWhenExifFollowsXMP(t *testing.T) {
	log, sink := testutil.NewLogger()
	xmp := []byte("http://ns.adobe.com/xap/1.0/\x00<x:xmpmeta/>")
	path := testutil.WriteFile(t, t.TempDir(), "edited.jpg",
		testutil.WithAPP1(t, testutil.JPEGWithGPS(t, testutil.Seoul), xmp))

	coord, found, err := NewExtractor(log).Extract(path)

	require.NoError(t, err)
	assert.True(t, found)
	assert.InDelta(t, testutil.SeoulCoordinate.Latitude, coord.Latitude, 1e-9)
	assert.InDelta(t, testutil.SeoulCoordinate.Longitude, coord.Longitude, 1e-9)
	entry, ok := sink.Find("info", "GPS found")
	require.True(t, ok)
	assert.Equal(t, "gps-ifd", entry["strategy"])
}
