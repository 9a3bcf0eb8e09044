package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	DefaultPhotoDir    string        `mapstructure:"DEFAULT_PHOTO_DIR" validate:"required"`
	LogFile            string        `mapstructure:"LOG_FILE" validate:"required"`
	LogLevel           string        `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	GeocoderProvider   string        `mapstructure:"GEOCODER_PROVIDER" validate:"oneof=nominatim google"`
	GeocoderLanguage   string        `mapstructure:"GEOCODER_LANGUAGE"`
	GeocoderTimeout    time.Duration `mapstructure:"GEOCODER_TIMEOUT" validate:"gt=0"`
	NominatimURL       string        `mapstructure:"NOMINATIM_URL" validate:"required_if=GeocoderProvider nominatim,omitempty,url"`
	NominatimUserAgent string        `mapstructure:"NOMINATIM_USER_AGENT" validate:"required_if=GeocoderProvider nominatim"`
	NominatimRateLimit float64       `mapstructure:"NOMINATIM_RATE_LIMIT" validate:"gte=0"`
	GoogleMapsAPIKey   string        `mapstructure:"GOOGLE_MAPS_API_KEY" validate:"required_if=GeocoderProvider google"`
	GoogleRateLimit    int           `mapstructure:"GOOGLE_RATE_LIMIT" validate:"gte=0"`
}

var defaults = map[string]any{
	"DEFAULT_PHOTO_DIR":    ".",
	"LOG_FILE":             "photo_sorter.log",
	"LOG_LEVEL":            "info",
	"GEOCODER_PROVIDER":    "nominatim",
	"GEOCODER_LANGUAGE":    "ko",
	"GEOCODER_TIMEOUT":     "5s",
	"NOMINATIM_URL":        "https://nominatim.openstreetmap.org",
	"NOMINATIM_USER_AGENT": "geo_photo_sorter",
	"NOMINATIM_RATE_LIMIT": 1.0,
	"GOOGLE_MAPS_API_KEY":  "",
	"GOOGLE_RATE_LIMIT":    0,
}

// LoadConfig reads app.env from path, then lets environment variables override it.
// A .env file next to app.env is loaded into the environment first, for secrets
// that should stay out of app.env. Both files are optional.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: read app.env: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err = validator.New().Struct(config); err != nil {
		return config, fmt.Errorf("config: invalid: %w", err)
	}

	return config, nil
}
