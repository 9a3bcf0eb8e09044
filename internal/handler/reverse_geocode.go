// Package handler serves a Nominatim-compatible /reverse endpoint backed by any
// AddressLookup. Pointing NOMINATIM_URL at it runs the sorter against an
// in-process geocoder, which is how the pipeline tests avoid the network.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"photo-sorter/internal/models"

	"github.com/gin-gonic/gin"
)

// AddressLookup interface for dependency injection
type AddressLookup interface {
	LookupAddress(ctx context.Context, c models.Coordinate) (*models.Address, error)
}

// AddressLookupFunc adapts a plain function to AddressLookup.
type AddressLookupFunc func(ctx context.Context, c models.Coordinate) (*models.Address, error)

func (f AddressLookupFunc) LookupAddress(ctx context.Context, c models.Coordinate) (*models.Address, error) {
	return f(ctx, c)
}

// ReverseGeocodeHandler serves reverse geocoding in the Nominatim wire format, so the
// Nominatim client can be pointed at it.
type ReverseGeocodeHandler struct {
	lookup AddressLookup
}

// NewReverseGeocodeHandler creates a new reverse geocode handler
func NewReverseGeocodeHandler(lookup AddressLookup) *ReverseGeocodeHandler {
	return &ReverseGeocodeHandler{lookup: lookup}
}

// ReverseGeocode handles GET /reverse requests
func (h *ReverseGeocodeHandler) ReverseGeocode(c *gin.Context) {
	coord, msg := queryCoordinate(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	address, err := h.lookup.LookupAddress(c.Request.Context(), coord)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	// Nominatim answers 200 with an error body when nothing is near the point.
	if address == nil {
		c.JSON(http.StatusOK, gin.H{"error": "Unable to geocode"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lat":     c.Query("lat"),
		"lon":     c.Query("lon"),
		"address": address,
	})
}

// queryCoordinate reads lat and lon, returning a client-facing message when either is unusable.
func queryCoordinate(c *gin.Context) (models.Coordinate, string) {
	lat, latOK := c.GetQuery("lat")
	lon, lonOK := c.GetQuery("lon")
	if !latOK || !lonOK || lat == "" || lon == "" {
		return models.Coordinate{}, "missing required query parameters 'lat' and 'lon'"
	}

	var coord models.Coordinate
	var err error
	if coord.Latitude, err = strconv.ParseFloat(lat, 64); err != nil {
		return coord, "invalid latitude format"
	}
	if coord.Longitude, err = strconv.ParseFloat(lon, 64); err != nil {
		return coord, "invalid longitude format"
	}
	return coord, ""
}

// NewRouter mounts the handler at /reverse next to a /health probe.
func NewRouter(lookup AddressLookup) *gin.Engine {
	r := gin.New()
	h := NewReverseGeocodeHandler(lookup)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/reverse", h.ReverseGeocode)

	return r
}
