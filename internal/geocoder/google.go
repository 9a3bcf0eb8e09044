package geocoder

import (
	"context"
	"fmt"
	"time"

	"photo-sorter/internal/models"

	"googlemaps.github.io/maps"
)

// GoogleOptions configures the Google Maps reverse geocoder.
type GoogleOptions struct {
	APIKey        string
	Language      string
	Timeout       time.Duration
	RatePerSecond int
	// BaseURL overrides https://maps.googleapis.com.
	BaseURL string
}

// Google reverse geocodes through the Google Maps Geocoding API.
type Google struct {
	client   *maps.Client
	language string
	timeout  time.Duration
}

func NewGoogle(opts GoogleOptions) (*Google, error) {
	clientOpts := []maps.ClientOption{maps.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(opts.BaseURL))
	}
	if opts.RatePerSecond > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(opts.RatePerSecond))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("geocoder: google client: %w", err)
	}

	return &Google{client: client, language: opts.Language, timeout: opts.Timeout}, nil
}

func (g *Google) Name() string { return "google" }

func (g *Google) Reverse(ctx context.Context, c models.Coordinate) (*models.Address, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: c.Latitude, Lng: c.Longitude},
		Language: g.language,
	})
	if err != nil {
		return nil, classify(ctx, fmt.Errorf("geocoder: google reverse geocode: %w", err))
	}
	// ZERO_RESULTS is not an error for the maps client, just an empty slice.
	if len(results) == 0 {
		return nil, nil
	}

	addr := addressFromComponents(results[0].AddressComponents)
	return &addr, nil
}

// addressFromComponents maps Google component types onto the Nominatim-shaped address.
// The first component of each type wins.
func addressFromComponents(components []maps.AddressComponent) models.Address {
	var addr models.Address
	set := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}

	for _, comp := range components {
		for _, t := range comp.Types {
			switch t {
			case "route":
				set(&addr.Road, comp.LongName)
			case "locality":
				set(&addr.City, comp.LongName)
			case "administrative_area_level_1":
				set(&addr.State, comp.LongName)
			case "sublocality_level_1", "sublocality", "neighborhood":
				set(&addr.Suburb, comp.LongName)
			case "postal_town":
				set(&addr.Town, comp.LongName)
			case "administrative_area_level_2":
				set(&addr.County, comp.LongName)
			}
		}
	}
	return addr
}
