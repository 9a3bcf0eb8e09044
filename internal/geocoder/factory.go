package geocoder

import (
	"fmt"

	"photo-sorter/internal/config"

	"github.com/rs/zerolog"
)

// FromConfig builds the provider selected by GEOCODER_PROVIDER.
func FromConfig(cfg config.Config, log zerolog.Logger) (Geocoder, error) {
	switch cfg.GeocoderProvider {
	case "", "nominatim":
		return NewNominatim(NominatimOptions{
			BaseURL:       cfg.NominatimURL,
			UserAgent:     cfg.NominatimUserAgent,
			Language:      cfg.GeocoderLanguage,
			Timeout:       cfg.GeocoderTimeout,
			RatePerSecond: cfg.NominatimRateLimit,
		}, log), nil
	case "google":
		return NewGoogle(GoogleOptions{
			APIKey:        cfg.GoogleMapsAPIKey,
			Language:      cfg.GeocoderLanguage,
			Timeout:       cfg.GeocoderTimeout,
			RatePerSecond: cfg.GoogleRateLimit,
		})
	default:
		return nil, fmt.Errorf("geocoder: unknown provider %q", cfg.GeocoderProvider)
	}
}
