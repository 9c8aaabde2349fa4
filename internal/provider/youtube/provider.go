package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Digital-Shane/trailer-tidy/internal/provider"
	"github.com/hashicorp/go-hclog"
	"google.golang.org/api/googleapi"
)

const (
	providerName = "youtube"

	// MaxResults is how many search hits are requested per query.
	MaxResults int64 = 10

	querySuffix    = " Trailer"
	defaultTimeout = 10 * time.Second
)

// Provider is the video-search adapter: it searches YouTube and keeps the
// hits whose titles look like a trailer for the searched movie.
type Provider struct {
	searcher Searcher
	apiKey   string
	videoURL string
	endpoint string
	timeout  time.Duration
	logger   hclog.Logger
	config   map[string]interface{}
}

// New creates a new YouTube provider instance.
func New(logger hclog.Logger) *Provider {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Provider{
		videoURL: provider.DefaultVideoURL,
		timeout:  defaultTimeout,
		logger:   logger.Named(providerName),
		config:   make(map[string]interface{}),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Description returns a human readable description of the provider.
func (p *Provider) Description() string {
	return "YouTube Data API video search"
}

// Capabilities returns what this provider can handle.
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		Kind:         provider.SourceVideoSearch,
		RequiresAuth: true,
		Priority:     90,
	}
}

// ConfigSchema returns the configuration schema for this provider.
func (p *Provider) ConfigSchema() provider.ConfigSchema {
	return provider.ConfigSchema{
		Fields: []provider.ConfigField{
			{
				Name:        "api_key",
				DisplayName: "API Key",
				Type:        provider.ConfigFieldTypePassword,
				Required:    true,
				Description: "YouTube Data API v3 key from the Google Cloud console",
				Sensitive:   true,
			},
			{
				Name:        "video_url",
				DisplayName: "Video URL",
				Type:        provider.ConfigFieldTypeURL,
				Default:     provider.DefaultVideoURL,
				Description: "Watch page template; the video id is set as its v parameter",
			},
		},
	}
}

// Configure applies configuration to the provider.
func (p *Provider) Configure(config map[string]interface{}) error {
	apiKeyRaw, ok := config["api_key"].(string)
	if !ok || strings.TrimSpace(apiKeyRaw) == "" {
		return fmt.Errorf("api_key is required")
	}
	p.apiKey = strings.TrimSpace(apiKeyRaw)

	if videoURL, ok := config["video_url"].(string); ok && videoURL != "" {
		p.videoURL = videoURL
	}
	if timeout, ok := config["request_timeout"].(time.Duration); ok && timeout > 0 {
		p.timeout = timeout
	}

	// Allow injecting a searcher before configuration (useful for tests).
	if p.searcher == nil {
		searcher, err := newAPISearcher(context.Background(), p.apiKey, p.endpoint)
		if err != nil {
			return fmt.Errorf("failed to create youtube client: %w", err)
		}
		p.searcher = searcher
	}
	p.config = config

	return nil
}

// Trailers searches for "<text> Trailer" and returns one record per hit that
// passes Matches, in the order YouTube ranked them.
func (p *Provider) Trailers(ctx context.Context, query provider.SearchQuery) ([]provider.TrailerRecord, error) {
	if p.searcher == nil {
		return nil, fmt.Errorf("provider not configured")
	}

	hits, err := p.search(ctx, query.Text()+querySuffix)
	if err != nil {
		return nil, err
	}

	var records []provider.TrailerRecord
	for _, hit := range hits {
		if !Matches(hit.SnippetTitle, query.Text()) {
			p.logger.Trace("rejected hit", "video_id", hit.VideoID, "title", hit.SnippetTitle)
			continue
		}

		link, err := provider.BuildVideoURL(p.videoURL, hit.VideoID)
		if err != nil {
			p.logger.Warn("skipping hit", "error", &provider.ItemError{Provider: providerName, Item: hit.VideoID, Err: err})
			continue
		}

		record, err := provider.NewTrailerRecord(link, hit.SnippetTitle, provider.SourceVideoSearch)
		if err != nil {
			p.logger.Warn("skipping hit", "error", &provider.ItemError{Provider: providerName, Item: hit.VideoID, Err: err})
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// Matches reports whether a video title mentions both "trailer" and the
// search text, ignoring case.
func Matches(title, searchText string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "trailer") && strings.Contains(lower, strings.ToLower(searchText))
}

func (p *Provider) search(ctx context.Context, q string) ([]VideoHit, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	hits, err := p.searcher.Search(callCtx, q, MaxResults)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: youtube did not respond within %s", provider.ErrProviderUnavailable, p.timeout)
		}
		return nil, p.mapError(err)
	}
	return hits, nil
}

func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "UNKNOWN",
			Message:  "YouTube error: " + err.Error(),
		}
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests || hasReason(apiErr, "quotaExceeded", "rateLimitExceeded"):
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       "RATE_LIMITED",
			Message:    "YouTube quota exceeded: " + apiErr.Message,
			Retry:      true,
			RetryAfter: 60,
		}
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden || apiErr.Code == http.StatusBadRequest && hasReason(apiErr, "keyInvalid"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "AUTH_FAILED",
			Message:  "YouTube authentication failed: " + apiErr.Message,
		}
	case apiErr.Code >= http.StatusInternalServerError:
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       "UNAVAILABLE",
			Message:    "YouTube service unavailable",
			Retry:      true,
			RetryAfter: 30,
		}
	default:
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "UNKNOWN",
			Message:  "YouTube error: " + apiErr.Error(),
		}
	}
}

func hasReason(apiErr *googleapi.Error, reasons ...string) bool {
	for _, item := range apiErr.Errors {
		for _, reason := range reasons {
			if item.Reason == reason {
				return true
			}
		}
	}
	return false
}

// SetSearcher replaces the YouTube search client (for testing).
func (p *Provider) SetSearcher(searcher Searcher) {
	p.searcher = searcher
}
