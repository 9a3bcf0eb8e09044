package geocoder

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"photo-sorter/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

const geocodePath = "/maps/api/geocode/json"

func component(name string, types ...string) gin.H {
	return gin.H{"long_name": name, "short_name": name, "types": types}
}

func TestGoogle_Reverse(t *testing.T) {
	languages := make(chan string, 1)
	srv := newUpstream(t, geocodePath, func(c *gin.Context) {
		languages <- c.Query("language")
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
			"results": []gin.H{{
				"formatted_address": "Sejong-daero, Jongno-gu, Seoul",
				"address_components": []gin.H{
					component("Sejong-daero", "route"),
					component("Jongno-gu", "political", "sublocality", "sublocality_level_1"),
					component("Seoul", "administrative_area_level_1", "political"),
					component("South Korea", "country", "political"),
				},
			}},
		})
	})

	g, err := NewGoogle(GoogleOptions{APIKey: "AIzaTestKey", Language: "ko", Timeout: 2 * time.Second, BaseURL: srv.URL})
	require.NoError(t, err)

	addr, err := g.Reverse(context.Background(), models.Coordinate{Latitude: 37.5729, Longitude: 126.9794})

	require.NoError(t, err)
	assert.Equal(t, &models.Address{Road: "Sejong-daero", State: "Seoul", Suburb: "Jongno-gu"}, addr)
	assert.Equal(t, "ko", <-languages)
}

func TestGoogle_ZeroResults(t *testing.T) {
	srv := newUpstream(t, geocodePath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ZERO_RESULTS", "results": []gin.H{}})
	})
	g, err := NewGoogle(GoogleOptions{APIKey: "AIzaTestKey", Timeout: time.Second, BaseURL: srv.URL})
	require.NoError(t, err)

	addr, err := g.Reverse(context.Background(), models.Coordinate{Latitude: 1, Longitude: 2})

	require.NoError(t, err)
	assert.Nil(t, addr)
}

func TestGoogle_RequestDenied(t *testing.T) {
	srv := newUpstream(t, geocodePath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "REQUEST_DENIED", "error_message": "bad key", "results": []gin.H{}})
	})
	g, err := NewGoogle(GoogleOptions{APIKey: "AIzaTestKey", Timeout: time.Second, BaseURL: srv.URL})
	require.NoError(t, err)

	addr, err := g.Reverse(context.Background(), models.Coordinate{Latitude: 1, Longitude: 2})

	require.Error(t, err)
	assert.Nil(t, addr)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestGoogle_Timeout(t *testing.T) {
	srv := newUpstream(t, geocodePath, func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
		case <-time.After(2 * time.Second):
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	g, err := NewGoogle(GoogleOptions{APIKey: "AIzaTestKey", Timeout: 50 * time.Millisecond, BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = g.Reverse(context.Background(), models.Coordinate{Latitude: 1, Longitude: 2})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
}

func TestAddressFromComponents(t *testing.T) {
	addr := addressFromComponents([]maps.AddressComponent{
		{LongName: "Teheran-ro", Types: []string{"route"}},
		{LongName: "Gangnam-gu", Types: []string{"sublocality_level_1"}},
		{LongName: "Yeoksam-dong", Types: []string{"sublocality_level_2", "sublocality"}},
		{LongName: "Seoul", Types: []string{"locality"}},
		{LongName: "Gapyeong-gun", Types: []string{"administrative_area_level_2"}},
		{LongName: "Bath", Types: []string{"postal_town"}},
	})

	assert.Equal(t, models.Address{
		Road:   "Teheran-ro",
		City:   "Seoul",
		Suburb: "Gangnam-gu",
		Town:   "Bath",
		County: "Gapyeong-gun",
	}, addr)
}
