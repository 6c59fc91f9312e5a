package tinkoff

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// DefaultBaseURL is the production endpoint of the mobile API.
const DefaultBaseURL = "https://api.tinkoff.ru"

// Config holds client construction options. The zero value is usable: every
// field falls back to a documented default.
type Config struct {
	// HTTPClient performs the actual requests. Timeouts, TLS and connection
	// reuse are its concern. Defaults to a plain http.Client.
	HTTPClient *http.Client
	// Logger receives Debug-level request logging. Defaults to the global
	// slog logger with a "tinkoff" component attribute.
	Logger *slog.Logger
	// BaseURL overrides DefaultBaseURL.
	BaseURL string
	// DeviceID is the device identifier presented to the backend. Defaults to
	// a freshly generated random UUID; use Client.DeviceID to read it back if
	// you need to persist it.
	DeviceID string
}

// NewClient builds a Client, applying defaults for any Config field left
// unset.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if cfg.DeviceID == "" {
		cfg.DeviceID = uuid.New().String()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default().With("component", "tinkoff")
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		deviceID:   cfg.DeviceID,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}, nil
}
