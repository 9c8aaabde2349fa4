// Package setup builds the provider registry from configuration. It lives
// apart from provider so the adapters can import provider without a cycle.
package setup

import (
	"fmt"

	"github.com/Digital-Shane/trailer-tidy/internal/config"
	"github.com/Digital-Shane/trailer-tidy/internal/provider"
	"github.com/Digital-Shane/trailer-tidy/internal/provider/tmdb"
	"github.com/Digital-Shane/trailer-tidy/internal/provider/youtube"
	"github.com/hashicorp/go-hclog"
)

// Sources is the configured set of built-in providers.
type Sources struct {
	Registry    *provider.Registry
	Metadata    *tmdb.Provider
	VideoSearch *youtube.Provider
}

// Options lets callers inject SDK clients, mainly for tests.
type Options struct {
	TMDBClient    tmdb.TMDBClient
	YouTubeSearch youtube.Searcher
}

// LoadBuiltinProviders registers the metadata and video search providers and
// enables each one whose API key is configured.
func LoadBuiltinProviders(cfg *config.Config, logger hclog.Logger, opts Options) (*Sources, error) {
	registry := provider.NewRegistry()

	metadata := tmdb.New(logger)
	if opts.TMDBClient != nil {
		metadata.SetClient(opts.TMDBClient)
	}
	if err := registry.Register(metadata.Name(), metadata, metadata.Capabilities().Priority); err != nil {
		return nil, fmt.Errorf("failed to register TMDB provider: %w", err)
	}

	video := youtube.New(logger)
	if opts.YouTubeSearch != nil {
		video.SetSearcher(opts.YouTubeSearch)
	}
	if err := registry.Register(video.Name(), video, video.Capabilities().Priority); err != nil {
		return nil, fmt.Errorf("failed to register YouTube provider: %w", err)
	}

	sources := &Sources{Registry: registry}

	if cfg.MetadataEnabled() {
		err := enable(registry, metadata.Name(), map[string]interface{}{
			"api_key":         cfg.TMDBAPIKey,
			"language":        cfg.TMDBLanguage,
			"video_url":       cfg.YouTubeURL,
			"request_timeout": cfg.RequestTimeout(),
			"lookup_workers":  cfg.LookupWorkers,
		})
		if err != nil {
			return nil, err
		}
		sources.Metadata = metadata
	}

	if cfg.VideoSearchEnabled() {
		err := enable(registry, video.Name(), map[string]interface{}{
			"api_key":         cfg.YouTubeAPIKey,
			"video_url":       cfg.YouTubeURL,
			"request_timeout": cfg.RequestTimeout(),
		})
		if err != nil {
			return nil, err
		}
		sources.VideoSearch = video
	}

	return sources, nil
}

func enable(registry *provider.Registry, name string, settings map[string]interface{}) error {
	if err := registry.Configure(name, settings); err != nil {
		return err
	}
	if err := registry.Enable(name); err != nil {
		return fmt.Errorf("failed to enable %s provider: %w", name, err)
	}
	return nil
}
