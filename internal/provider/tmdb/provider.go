package tmdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Digital-Shane/trailer-tidy/internal/provider"
	"github.com/hashicorp/go-hclog"
	"github.com/ryanbradynd05/go-tmdb"
)

const (
	providerName = "tmdb"

	defaultLanguage = "en-US"
	defaultTimeout  = 10 * time.Second
	defaultWorkers  = 1
)

// Provider is the metadata adapter: it searches TMDB for titles and resolves
// each title's trailer link.
type Provider struct {
	client   TMDBClient
	apiKey   string
	language string
	videoURL string
	timeout  time.Duration
	workers  int64
	logger   hclog.Logger
	config   map[string]interface{}
}

// TMDBClient interface for testing (matches *tmdb.TMDb exactly)
type TMDBClient interface {
	SearchMovie(name string, options map[string]string) (*tmdb.MovieSearchResults, error)
	GetMovieInfo(id int, options map[string]string) (*tmdb.Movie, error)
	GetMovieVideos(id int, options map[string]string) (*tmdb.MovieVideos, error)
}

// TitleRef is a single title-search hit.
type TitleRef struct {
	ID    string
	Title string
}

// TrailerCandidate is what a trailer lookup resolved for one title. Link is
// empty when the title has no usable trailer.
type TrailerCandidate struct {
	Link      string
	FullTitle string
}

// New creates a new TMDB provider instance
func New(logger hclog.Logger) *Provider {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Provider{
		language: defaultLanguage,
		videoURL: provider.DefaultVideoURL,
		timeout:  defaultTimeout,
		workers:  defaultWorkers,
		logger:   logger.Named(providerName),
		config:   make(map[string]interface{}),
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return providerName
}

// Description returns the provider description
func (p *Provider) Description() string {
	return "The Movie Database (TMDB) title search and trailer lookup"
}

// Capabilities returns what this provider can do
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		Kind:         provider.SourceMetadata,
		RequiresAuth: true,
		Priority:     100, // Metadata results are always merged first
	}
}

// ConfigSchema returns the configuration schema for this provider
func (p *Provider) ConfigSchema() provider.ConfigSchema {
	return provider.ConfigSchema{
		Fields: []provider.ConfigField{
			{
				Name:        "api_key",
				DisplayName: "API Key",
				Type:        provider.ConfigFieldTypePassword,
				Required:    true,
				Description: "TMDB API key (not the Read Access Token). Get it from themoviedb.org/settings/api",
				Sensitive:   true,
			},
			{
				Name:        "language",
				DisplayName: "Language",
				Type:        provider.ConfigFieldTypeString,
				Default:     defaultLanguage,
				Description: "Language used for titles and video lookups",
			},
			{
				Name:        "video_url",
				DisplayName: "Video URL",
				Type:        provider.ConfigFieldTypeURL,
				Default:     provider.DefaultVideoURL,
				Description: "Watch page template; the trailer key is set as its v parameter",
			},
			{
				Name:        "lookup_workers",
				DisplayName: "Lookup Workers",
				Type:        provider.ConfigFieldTypeInt,
				Default:     defaultWorkers,
				Description: "How many trailer lookups may run at once (1 = sequential)",
			},
		},
	}
}

// Configure applies configuration to the provider
func (p *Provider) Configure(config map[string]interface{}) error {
	apiKeyRaw, ok := config["api_key"].(string)
	if !ok || strings.TrimSpace(apiKeyRaw) == "" {
		return fmt.Errorf("api_key is required")
	}
	p.apiKey = strings.TrimSpace(apiKeyRaw)

	if language, ok := config["language"].(string); ok && language != "" {
		p.language = language
	}
	if videoURL, ok := config["video_url"].(string); ok && videoURL != "" {
		p.videoURL = videoURL
	}
	if timeout, ok := config["request_timeout"].(time.Duration); ok && timeout > 0 {
		p.timeout = timeout
	}
	if workers, ok := config["lookup_workers"].(int); ok && workers > 0 {
		p.workers = int64(workers)
	}

	// Allow injecting a client before configuration (useful for tests).
	if p.client == nil {
		p.client = tmdb.Init(tmdb.Config{
			APIKey:   p.apiKey,
			Proxies:  nil,
			UseProxy: false,
		})
	}
	p.config = config

	return nil
}

// mapError maps TMDB errors to provider errors
func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, provider.ErrProviderUnavailable) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "invalid api key") {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "AUTH_FAILED",
			Message:  "TMDB authentication failed: " + err.Error(),
			Retry:    false,
		}
	}
	if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") {
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       "RATE_LIMITED",
			Message:    "TMDB rate limit exceeded",
			Retry:      true,
			RetryAfter: 10,
		}
	}
	if strings.Contains(errStr, "503") || strings.Contains(errStr, "unavailable") {
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       "UNAVAILABLE",
			Message:    "TMDB service unavailable",
			Retry:      true,
			RetryAfter: 30,
		}
	}
	if strings.Contains(errStr, "404") || strings.Contains(errStr, "could not be found") {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "NOT_FOUND",
			Message:  "TMDB resource not found: " + err.Error(),
			Retry:    false,
		}
	}

	return &provider.ProviderError{
		Provider: providerName,
		Code:     "UNKNOWN",
		Message:  "TMDB error: " + err.Error(),
		Retry:    false,
	}
}

// SetClient sets a custom TMDB client (for testing)
func (p *Provider) SetClient(client TMDBClient) {
	p.client = client
}
