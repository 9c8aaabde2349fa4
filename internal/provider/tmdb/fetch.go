package tmdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Digital-Shane/trailer-tidy/internal/provider"
	"github.com/mhmtszr/concurrent-swiss-map"
	"github.com/ryanbradynd05/go-tmdb"
	"golang.org/x/sync/semaphore"
)

// Trailers searches for titles matching the query and resolves a trailer for
// every hit. Lookups that fail or resolve no link are logged and skipped;
// records keep the order of the title search.
func (p *Provider) Trailers(ctx context.Context, query provider.SearchQuery) ([]provider.TrailerRecord, error) {
	if p.client == nil {
		return nil, fmt.Errorf("provider not configured")
	}

	refs, err := p.SearchTitles(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		p.logger.Debug("title search returned no results", "query", query.Text())
		return nil, nil
	}

	found := csmap.Create[int, provider.TrailerRecord]()
	sem := semaphore.NewWeighted(p.workers)
	var wg sync.WaitGroup

	for i, ref := range refs {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(index int, ref TitleRef) {
			defer wg.Done()
			defer sem.Release(1)

			record, err := p.lookup(ctx, ref)
			if err != nil {
				p.logger.Warn("skipping title", "id", ref.ID, "title", ref.Title, "error", err)
				return
			}
			if record == nil {
				p.logger.Debug("no trailer for title", "id", ref.ID, "title", ref.Title)
				return
			}
			found.Store(index, *record)
		}(i, ref)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make([]provider.TrailerRecord, 0, found.Count())
	for i := range refs {
		if record, ok := found.Load(i); ok {
			records = append(records, record)
		}
	}
	return records, nil
}

// Best resolves a trailer for the first title-search hit only. It returns
// nil when there are no hits or the first hit has no trailer.
func (p *Provider) Best(ctx context.Context, query provider.SearchQuery) (*provider.TrailerRecord, error) {
	if p.client == nil {
		return nil, fmt.Errorf("provider not configured")
	}

	refs, err := p.SearchTitles(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}

	return p.lookup(ctx, refs[0])
}

// SearchTitles runs the TMDB movie search. No results is not an error.
func (p *Provider) SearchTitles(ctx context.Context, query provider.SearchQuery) ([]TitleRef, error) {
	options := map[string]string{
		"language": p.language,
	}

	results, err := provider.CallWithTimeout(ctx, "tmdb search", p.timeout, func() (*tmdb.MovieSearchResults, error) {
		return p.client.SearchMovie(query.Text(), options)
	})
	if err != nil {
		return nil, p.mapError(err)
	}
	if results == nil || len(results.Results) == 0 {
		return nil, nil
	}

	refs := make([]TitleRef, 0, len(results.Results))
	for _, movie := range results.Results {
		refs = append(refs, TitleRef{
			ID:    strconv.Itoa(movie.ID),
			Title: movie.Title,
		})
	}
	return refs, nil
}

// FetchTrailer loads the title and videos for id. It returns nil when the
// title has no YouTube trailer or teaser.
func (p *Provider) FetchTrailer(ctx context.Context, id string) (*TrailerCandidate, error) {
	movieID, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("invalid tmdb id %q", id)
	}

	options := map[string]string{
		"language": p.language,
	}

	movie, err := provider.CallWithTimeout(ctx, "tmdb movie", p.timeout, func() (*tmdb.Movie, error) {
		return p.client.GetMovieInfo(movieID, options)
	})
	if err != nil {
		return nil, p.mapError(err)
	}
	if movie == nil {
		return nil, nil
	}

	videos, err := provider.CallWithTimeout(ctx, "tmdb videos", p.timeout, func() (*tmdb.MovieVideos, error) {
		return p.client.GetMovieVideos(movieID, options)
	})
	if err != nil {
		return nil, p.mapError(err)
	}
	if videos == nil {
		return nil, nil
	}

	var clips []video
	for _, v := range videos.Results {
		clips = append(clips, video{Key: v.Key, Site: v.Site, Type: v.Type})
	}

	key := pickTrailerKey(clips)
	if key == "" {
		return nil, nil
	}

	link, err := provider.BuildVideoURL(p.videoURL, key)
	if err != nil {
		return nil, err
	}

	return &TrailerCandidate{
		Link:      link,
		FullTitle: fullTitle(movie.Title, movie.ReleaseDate),
	}, nil
}

// lookup turns one title into a record. A nil record with a nil error means
// the title has no trailer.
func (p *Provider) lookup(ctx context.Context, ref TitleRef) (*provider.TrailerRecord, error) {
	candidate, err := p.FetchTrailer(ctx, ref.ID)
	if err != nil {
		return nil, &provider.ItemError{Provider: providerName, Item: ref.ID, Err: err}
	}
	if candidate == nil || candidate.Link == "" {
		return nil, nil
	}

	title := candidate.FullTitle
	if title == "" {
		title = ref.Title
	}

	record, err := provider.NewTrailerRecord(candidate.Link, title+" Trailer", provider.SourceMetadata)
	if err != nil {
		return nil, &provider.ItemError{Provider: providerName, Item: ref.ID, Err: err}
	}
	return &record, nil
}

// video is the part of a TMDB video entry used to pick a trailer.
type video struct {
	Key  string
	Site string
	Type string
}

// pickTrailerKey prefers a YouTube trailer and falls back to a YouTube teaser.
func pickTrailerKey(videos []video) string {
	for _, kind := range []string{"Trailer", "Teaser"} {
		for _, v := range videos {
			if v.Key == "" || !strings.EqualFold(v.Site, "YouTube") {
				continue
			}
			if strings.EqualFold(v.Type, kind) {
				return v.Key
			}
		}
	}
	return ""
}

// fullTitle renders "Title (Year)" when the release date carries a year.
func fullTitle(title, releaseDate string) string {
	title = strings.TrimSpace(title)
	if len(releaseDate) >= 4 && title != "" {
		return fmt.Sprintf("%s (%s)", title, releaseDate[:4])
	}
	return title
}
