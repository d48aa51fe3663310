package steam

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"commongames/internal/pkg/limiter"
	"commongames/internal/pkg/logx"
)

const (
	// DefaultWebAPIURL is the base URL of the Steam Web API.
	DefaultWebAPIURL = "https://api.steampowered.com"

	// DefaultStoreURL is the base URL of the Steam store.
	DefaultStoreURL = "https://store.steampowered.com"
)

// ServiceConfig holds the configuration required to talk to the Steam endpoints.
type ServiceConfig struct {
	WebAPIURL string
	StoreURL  string

	// Timeout bounds each request, including reading the body.
	Timeout time.Duration

	// StoreRate and StoreBurst pace requests to the store host. StoreRate <= 0 disables pacing.
	StoreRate  float64
	StoreBurst int

	// Transport is the base round tripper. Nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

// NewClient is the factory function for Client.
// It validates the base URLs and assembles the HTTP client: rate limiting, then request logging.
func NewClient(cfg ServiceConfig) (*Client, error) {
	if cfg.WebAPIURL == "" {
		cfg.WebAPIURL = DefaultWebAPIURL
	}
	if cfg.StoreURL == "" {
		cfg.StoreURL = DefaultStoreURL
	}

	webAPI, err := url.Parse(cfg.WebAPIURL)
	if err != nil || webAPI.Host == "" {
		return nil, errors.New("invalid Steam Web API URL")
	}
	store, err := url.Parse(cfg.StoreURL)
	if err != nil || store.Host == "" {
		return nil, errors.New("invalid Steam store URL")
	}

	hosts := limiter.NewHostRateLimiter(rate.Inf, 0)
	if cfg.StoreRate > 0 {
		burst := max(cfg.StoreBurst, 1)
		hosts.SetLimit(store.Hostname(), rate.Limit(cfg.StoreRate), burst)
	}

	return &Client{
		webAPI: webAPI,
		store:  store,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: hosts.Transport(logx.Transport(cfg.Transport)),
		},
	}, nil
}
