package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Digital-Shane/trailer-tidy/internal/provider"
	"github.com/hashicorp/go-hclog"
)

// BestSource resolves a single best trailer. Only the metadata provider
// implements it.
type BestSource interface {
	Best(ctx context.Context, query provider.SearchQuery) (*provider.TrailerRecord, error)
}

// Aggregator queries every enabled provider and merges their trailers.
type Aggregator struct {
	registry *provider.Registry
	best     BestSource
	logger   hclog.Logger
}

// AggregatorConfig wires providers into an Aggregator.
type AggregatorConfig struct {
	Registry *provider.Registry
	Best     BestSource
	Logger   hclog.Logger
}

type sourceResult struct {
	name    string
	records []provider.TrailerRecord
	err     error
}

// NewAggregator constructs an aggregator. A nil registry is treated as empty.
func NewAggregator(cfg AggregatorConfig) *Aggregator {
	registry := cfg.Registry
	if registry == nil {
		registry = provider.NewRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Aggregator{
		registry: registry,
		best:     cfg.Best,
		logger:   logger.Named("aggregator"),
	}
}

// FindAll runs every enabled provider concurrently and concatenates their
// records in registry priority order, so metadata results always precede
// video-search results no matter which call finishes first. It never returns
// an empty slice with a nil error: no records yields a *provider.NotFoundError,
// or the provider failures when every source that could have answered failed.
func (a *Aggregator) FindAll(ctx context.Context, searchText string) ([]provider.TrailerRecord, error) {
	query, err := provider.NewSearchQuery(searchText)
	if err != nil {
		return nil, err
	}

	sources := a.registry.Enabled()
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no trailer providers are enabled", provider.ErrProviderUnavailable)
	}

	results := make([]sourceResult, len(sources))
	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(slot int, source provider.Source) {
			defer wg.Done()
			records, err := source.Trailers(ctx, query)
			results[slot] = sourceResult{name: source.Name(), records: records, err: err}
		}(i, source)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var merged []provider.TrailerRecord
	var failures []error
	for _, res := range results {
		if res.err != nil {
			a.logger.Warn("provider failed", "provider", res.name, "query", query.Text(), "error", res.err)
			failures = append(failures, fmt.Errorf("%s: %w", res.name, res.err))
			continue
		}
		a.logger.Debug("provider finished", "provider", res.name, "records", len(res.records))
		merged = append(merged, res.records...)
	}

	if len(merged) > 0 {
		return merged, nil
	}
	if len(failures) > 0 {
		return nil, errors.Join(failures...)
	}
	return nil, &provider.NotFoundError{SearchText: query.Text()}
}

// FindBest returns the trailer for the first metadata search hit, or nil.
// Video search is deliberately not consulted.
func (a *Aggregator) FindBest(ctx context.Context, searchText string) (*provider.TrailerRecord, error) {
	query, err := provider.NewSearchQuery(searchText)
	if err != nil {
		return nil, err
	}
	if a.best == nil {
		return nil, fmt.Errorf("%w: metadata provider is not configured", provider.ErrProviderUnavailable)
	}

	return a.best.Best(ctx, query)
}
