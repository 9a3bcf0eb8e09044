package geocoder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"photo-sorter/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T, path string, handler gin.HandlerFunc) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET(path, handler)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestNominatim_Reverse(t *testing.T) {
	jongno := models.Coordinate{Latitude: 37.5729, Longitude: 126.9794}

	tests := []struct {
		name        string
		status      int
		body        gin.H
		expected    *models.Address
		expectError bool
	}{
		{
			name:   "address found",
			status: http.StatusOK,
			body: gin.H{
				"display_name": "Jongno-gu, Seoul",
				"address": gin.H{
					"road":     "Sejong-daero",
					"city":     "Seoul",
					"suburb":   "Jongno-gu",
					"county":   "ignored-county",
					"postcode": "03172",
				},
			},
			expected: &models.Address{Road: "Sejong-daero", City: "Seoul", Suburb: "Jongno-gu", County: "ignored-county"},
		},
		{
			name:     "unable to geocode",
			status:   http.StatusOK,
			body:     gin.H{"error": "Unable to geocode"},
			expected: nil,
		},
		{
			name:        "upstream error",
			status:      http.StatusServiceUnavailable,
			body:        gin.H{"error": "busy"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			reqs := make(chan *http.Request, 1)
			srv := newUpstream(t, "/reverse", func(c *gin.Context) {
				reqs <- c.Request.Clone(context.Background())
				c.JSON(tt.status, tt.body)
			})
			n := NewNominatim(NominatimOptions{
				BaseURL:   srv.URL + "/",
				UserAgent: "geo_photo_sorter",
				Language:  "ko",
				Timeout:   2 * time.Second,
			}, zerolog.Nop())

			// Execute
			addr, err := n.Reverse(context.Background(), jongno)

			// Assert
			if tt.expectError {
				assert.Error(t, err)
				assert.False(t, errors.Is(err, ErrTimeout))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, addr)
			}

			got := <-reqs
			q := got.URL.Query()
			assert.Equal(t, "json", q.Get("format"))
			assert.Equal(t, "37.5729", q.Get("lat"))
			assert.Equal(t, "126.9794", q.Get("lon"))
			assert.Equal(t, "1", q.Get("addressdetails"))
			assert.Equal(t, "ko", q.Get("accept-language"))
			assert.Equal(t, "geo_photo_sorter", got.Header.Get("User-Agent"))
		})
	}
}

func TestNominatim_Timeout(t *testing.T) {
	srv := newUpstream(t, "/reverse", func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
		case <-time.After(2 * time.Second):
		}
		c.JSON(http.StatusOK, gin.H{})
	})
	n := NewNominatim(NominatimOptions{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, zerolog.Nop())

	_, err := n.Reverse(context.Background(), models.Coordinate{Latitude: 1, Longitude: 2})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
}

func TestNominatim_MalformedBody(t *testing.T) {
	srv := newUpstream(t, "/reverse", func(c *gin.Context) {
		c.String(http.StatusOK, "{not json")
	})
	n := NewNominatim(NominatimOptions{BaseURL: srv.URL, Timeout: time.Second}, zerolog.Nop())

	_, err := n.Reverse(context.Background(), models.Coordinate{Latitude: 1, Longitude: 2})

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestNominatim_RateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := newUpstream(t, "/reverse", func(c *gin.Context) {
		calls.Add(1)
		c.JSON(http.StatusOK, gin.H{"error": "Unable to geocode"})
	})
	n := NewNominatim(NominatimOptions{BaseURL: srv.URL, Timeout: time.Second, RatePerSecond: 0.001}, zerolog.Nop())

	_, err := n.Reverse(context.Background(), models.Coordinate{})
	require.NoError(t, err)

	// The single token is spent; the next call cannot be admitted before this deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = n.Reverse(ctx, models.Coordinate{})

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
