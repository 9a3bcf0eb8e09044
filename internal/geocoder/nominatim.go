package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"photo-sorter/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimOptions configures the OpenStreetMap Nominatim client.
type NominatimOptions struct {
	BaseURL   string
	UserAgent string
	Language  string
	Timeout   time.Duration
	// RatePerSecond caps outgoing requests; zero or less disables the cap.
	RatePerSecond float64
}

// Nominatim queries the Nominatim /reverse endpoint.
type Nominatim struct {
	client    *http.Client
	limiter   *rate.Limiter
	baseURL   string
	userAgent string
	language  string
	log       zerolog.Logger
}

func NewNominatim(opts NominatimOptions, log zerolog.Logger) *Nominatim {
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}

	return &Nominatim{
		client:    &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(limit, 1),
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: opts.UserAgent,
		language:  opts.Language,
		log:       log,
	}
}

func (n *Nominatim) Name() string { return "nominatim" }

type nominatimAddress struct {
	Road   string `json:"road"`
	City   string `json:"city"`
	State  string `json:"state"`
	Suburb string `json:"suburb"`
	Town   string `json:"town"`
	County string `json:"county"`
}

// nominatimReverse mirrors the relevant parts of the reverse payload.
type nominatimReverse struct {
	Error       string            `json:"error"`
	DisplayName string            `json:"display_name"`
	Address     *nominatimAddress `json:"address"`
}

func (n *Nominatim) Reverse(ctx context.Context, c models.Coordinate) (*models.Address, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, classify(ctx, fmt.Errorf("geocoder: rate limiter: %w", err))
	}

	params := url.Values{}
	params.Add("format", "json")
	params.Add("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	params.Add("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	params.Add("addressdetails", "1")
	if n.language != "" {
		params.Add("accept-language", n.language)
	}

	reqURL := fmt.Sprintf("%s/reverse?%s", n.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("geocoder: build request: %w", err)
	}
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, classify(ctx, fmt.Errorf("geocoder: nominatim request: %w", err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder: nominatim upstream error: %d", resp.StatusCode)
	}

	var raw nominatimReverse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, classify(ctx, fmt.Errorf("geocoder: decode nominatim payload: %w", err))
	}

	if raw.Error != "" || raw.Address == nil {
		n.log.Debug().Str("coordinate", c.String()).Str("reason", raw.Error).Msg("nominatim returned no address")
		return nil, nil
	}

	return &models.Address{
		Road:   raw.Address.Road,
		City:   raw.Address.City,
		State:  raw.Address.State,
		Suburb: raw.Address.Suburb,
		Town:   raw.Address.Town,
		County: raw.Address.County,
	}, nil
}
