package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Digital-Shane/trailer-tidy/internal/provider"
	"github.com/google/go-cmp/cmp"
	"github.com/ryanbradynd05/go-tmdb"
)

// mockTMDBClient implements TMDBClient for testing
type mockTMDBClient struct {
	searchMovieFunc    func(name string, options map[string]string) (*tmdb.MovieSearchResults, error)
	getMovieInfoFunc   func(id int, options map[string]string) (*tmdb.Movie, error)
	getMovieVideosFunc func(id int, options map[string]string) (*tmdb.MovieVideos, error)

	searchCalls atomic.Int32
	infoCalls   atomic.Int32
	videoCalls  atomic.Int32
}

func (m *mockTMDBClient) SearchMovie(name string, options map[string]string) (*tmdb.MovieSearchResults, error) {
	m.searchCalls.Add(1)
	if m.searchMovieFunc != nil {
		return m.searchMovieFunc(name, options)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTMDBClient) GetMovieInfo(id int, options map[string]string) (*tmdb.Movie, error) {
	m.infoCalls.Add(1)
	if m.getMovieInfoFunc != nil {
		return m.getMovieInfoFunc(id, options)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTMDBClient) GetMovieVideos(id int, options map[string]string) (*tmdb.MovieVideos, error) {
	m.videoCalls.Add(1)
	if m.getMovieVideosFunc != nil {
		return m.getMovieVideosFunc(id, options)
	}
	return nil, errors.New("not implemented")
}

// videosJSON builds a MovieVideos value from the TMDB wire format.
func videosJSON(t *testing.T, id int, body string) *tmdb.MovieVideos {
	t.Helper()
	var videos tmdb.MovieVideos
	if err := json.Unmarshal([]byte(fmt.Sprintf(`{"id": %d, "results": %s}`, id, body)), &videos); err != nil {
		t.Fatalf("unmarshal videos: %v", err)
	}
	return &videos
}

func searchResults(movies ...tmdb.MovieShort) *tmdb.MovieSearchResults {
	return &tmdb.MovieSearchResults{Results: movies}
}

func newTestProvider(t *testing.T, client *mockTMDBClient, extra map[string]interface{}) *Provider {
	t.Helper()
	prov := New(nil)
	prov.client = client
	config := map[string]interface{}{"api_key": "test-key"}
	for k, v := range extra {
		config[k] = v
	}
	if err := prov.Configure(config); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	return prov
}

func mustQuery(t *testing.T, text string) provider.SearchQuery {
	t.Helper()
	query, err := provider.NewSearchQuery(text)
	if err != nil {
		t.Fatalf("NewSearchQuery() error = %v", err)
	}
	return query
}

func TestConfigureRequiresAPIKey(t *testing.T) {
	prov := New(nil)
	if err := prov.Configure(map[string]interface{}{}); err == nil {
		t.Fatal("expected error when api_key is missing")
	}
	if err := prov.Configure(map[string]interface{}{"api_key": "   "}); err == nil {
		t.Fatal("expected error when api_key is blank")
	}
}

func TestConfigureCreatesClient(t *testing.T) {
	prov := New(nil)
	if err := prov.Configure(map[string]interface{}{
		"api_key":         "abc",
		"lookup_workers":  4,
		"request_timeout": 3 * time.Second,
		"video_url":       "https://youtube.example/watch",
	}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if prov.client == nil {
		t.Fatal("expected TMDB client to be created")
	}
	if prov.workers != 4 || prov.timeout != 3*time.Second || prov.videoURL != "https://youtube.example/watch" {
		t.Errorf("unexpected configuration: workers=%d timeout=%s url=%s", prov.workers, prov.timeout, prov.videoURL)
	}
}

func TestTrailers_SingleTitle(t *testing.T) {
	client := &mockTMDBClient{
		searchMovieFunc: func(name string, options map[string]string) (*tmdb.MovieSearchResults, error) {
			if name != "Inception" {
				t.Errorf("SearchMovie() name = %q, want Inception", name)
			}
			return searchResults(tmdb.MovieShort{ID: 27205, Title: "Inception"}), nil
		},
		getMovieInfoFunc: func(id int, options map[string]string) (*tmdb.Movie, error) {
			return &tmdb.Movie{ID: id, Title: "Inception", ReleaseDate: "2010-07-16"}, nil
		},
		getMovieVideosFunc: func(id int, options map[string]string) (*tmdb.MovieVideos, error) {
			return videosJSON(t, id, `[
				{"key": "clip1", "site": "YouTube", "type": "Clip"},
				{"key": "YoHD9XEInc0", "site": "YouTube", "type": "Trailer"}
			]`), nil
		},
	}
	prov := newTestProvider(t, client, nil)

	got, err := prov.Trailers(context.Background(), mustQuery(t, "Inception"))
	if err != nil {
		t.Fatalf("Trailers() error = %v", err)
	}

	want := []provider.TrailerRecord{{
		URL:    "https://www.youtube.com/watch?v=YoHD9XEInc0",
		Title:  "Inception (2010) Trailer",
		Source: provider.SourceMetadata,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Trailers() mismatch (-want +got):\n%s", diff)
	}
}

func TestTrailers_NoSearchResults(t *testing.T) {
	for name, results := range map[string]*tmdb.MovieSearchResults{
		"nil":   nil,
		"empty": searchResults(),
	} {
		t.Run(name, func(t *testing.T) {
			client := &mockTMDBClient{
				searchMovieFunc: func(string, map[string]string) (*tmdb.MovieSearchResults, error) {
					return results, nil
				},
			}
			prov := newTestProvider(t, client, nil)

			got, err := prov.Trailers(context.Background(), mustQuery(t, "Nothing"))
			if err != nil {
				t.Fatalf("Trailers() error = %v", err)
			}
			if len(got) != 0 {
				t.Errorf("Trailers() = %v, want none", got)
			}
			if client.infoCalls.Load() != 0 {
				t.Errorf("GetMovieInfo() called %d times, want 0", client.infoCalls.Load())
			}
		})
	}
}

func TestTrailers_IsolatesItemFailures(t *testing.T) {
	client := &mockTMDBClient{
		searchMovieFunc: func(string, map[string]string) (*tmdb.MovieSearchResults, error) {
			return searchResults(
				tmdb.MovieShort{ID: 1, Title: "Alien"},
				tmdb.MovieShort{ID: 2, Title: "Aliens"},
				tmdb.MovieShort{ID: 3, Title: "Alien 3"},
				tmdb.MovieShort{ID: 4, Title: "Alien Resurrection"},
			), nil
		},
		getMovieInfoFunc: func(id int, options map[string]string) (*tmdb.Movie, error) {
			if id == 2 {
				return nil, errors.New("500 internal error")
			}
			return &tmdb.Movie{ID: id, Title: fmt.Sprintf("Movie %d", id)}, nil
		},
		getMovieVideosFunc: func(id int, options map[string]string) (*tmdb.MovieVideos, error) {
			if id == 3 {
				// Only a featurette: no trailer link, dropped silently.
				return videosJSON(t, id, `[{"key": "f", "site": "YouTube", "type": "Featurette"}]`), nil
			}
			return videosJSON(t, id, fmt.Sprintf(`[{"key": "k%d", "site": "YouTube", "type": "Trailer"}]`, id)), nil
		},
	}
	prov := newTestProvider(t, client, nil)

	got, err := prov.Trailers(context.Background(), mustQuery(t, "Alien"))
	if err != nil {
		t.Fatalf("Trailers() error = %v", err)
	}

	want := []provider.TrailerRecord{
		{URL: "https://www.youtube.com/watch?v=k1", Title: "Movie 1 Trailer", Source: provider.SourceMetadata},
		{URL: "https://www.youtube.com/watch?v=k4", Title: "Movie 4 Trailer", Source: provider.SourceMetadata},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Trailers() mismatch (-want +got):\n%s", diff)
	}
	if calls := client.infoCalls.Load(); calls != 4 {
		t.Errorf("GetMovieInfo() called %d times, want 4", calls)
	}
}

func TestTrailers_ParallelLookupsKeepSearchOrder(t *testing.T) {
	var mu sync.Mutex
	active, peak := 0, 0

	client := &mockTMDBClient{
		searchMovieFunc: func(string, map[string]string) (*tmdb.MovieSearchResults, error) {
			var movies []tmdb.MovieShort
			for id := 1; id <= 6; id++ {
				movies = append(movies, tmdb.MovieShort{ID: id, Title: fmt.Sprintf("Movie %d", id)})
			}
			return searchResults(movies...), nil
		},
		getMovieInfoFunc: func(id int, options map[string]string) (*tmdb.Movie, error) {
			mu.Lock()
			active++
			peak = max(peak, active)
			mu.Unlock()

			// Earlier ids finish last.
			time.Sleep(time.Duration(7-id) * 5 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			return &tmdb.Movie{ID: id, Title: fmt.Sprintf("Movie %d", id)}, nil
		},
		getMovieVideosFunc: func(id int, options map[string]string) (*tmdb.MovieVideos, error) {
			return videosJSON(t, id, fmt.Sprintf(`[{"key": "k%d", "site": "YouTube", "type": "Trailer"}]`, id)), nil
		},
	}
	prov := newTestProvider(t, client, map[string]interface{}{"lookup_workers": 3})

	got, err := prov.Trailers(context.Background(), mustQuery(t, "Movie"))
	if err != nil {
		t.Fatalf("Trailers() error = %v", err)
	}

	var titles []string
	for _, record := range got {
		titles = append(titles, record.Title)
	}
	want := []string{
		"Movie 1 Trailer", "Movie 2 Trailer", "Movie 3 Trailer",
		"Movie 4 Trailer", "Movie 5 Trailer", "Movie 6 Trailer",
	}
	if diff := cmp.Diff(want, titles); diff != "" {
		t.Errorf("Trailers() order mismatch (-want +got):\n%s", diff)
	}
	if peak > 3 {
		t.Errorf("peak concurrent lookups = %d, want <= 3", peak)
	}
}

func TestTrailers_SearchFailureIsMapped(t *testing.T) {
	client := &mockTMDBClient{
		searchMovieFunc: func(string, map[string]string) (*tmdb.MovieSearchResults, error) {
			return nil, errors.New("401 unauthorized")
		},
	}
	prov := newTestProvider(t, client, nil)

	_, err := prov.Trailers(context.Background(), mustQuery(t, "Inception"))
	var provErr *provider.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Trailers() error = %v, want *provider.ProviderError", err)
	}
	if provErr.Code != "AUTH_FAILED" {
		t.Errorf("Code = %s, want AUTH_FAILED", provErr.Code)
	}
}

func TestTrailers_SearchTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	client := &mockTMDBClient{
		searchMovieFunc: func(string, map[string]string) (*tmdb.MovieSearchResults, error) {
			<-release
			return nil, nil
		},
	}
	prov := newTestProvider(t, client, map[string]interface{}{"request_timeout": 10 * time.Millisecond})

	_, err := prov.Trailers(context.Background(), mustQuery(t, "Inception"))
	if !errors.Is(err, provider.ErrProviderUnavailable) {
		t.Fatalf("Trailers() error = %v, want ErrProviderUnavailable", err)
	}
}

func TestBest_UsesOnlyFirstResult(t *testing.T) {
	var lookedUp []int
	client := &mockTMDBClient{
		searchMovieFunc: func(string, map[string]string) (*tmdb.MovieSearchResults, error) {
			return searchResults(
				tmdb.MovieShort{ID: 27205, Title: "Inception"},
				tmdb.MovieShort{ID: 64956, Title: "Inception: The Cobol Job"},
			), nil
		},
		getMovieInfoFunc: func(id int, options map[string]string) (*tmdb.Movie, error) {
			lookedUp = append(lookedUp, id)
			return &tmdb.Movie{ID: id, Title: "Inception"}, nil
		},
		getMovieVideosFunc: func(id int, options map[string]string) (*tmdb.MovieVideos, error) {
			return videosJSON(t, id, `[{"key": "v1", "site": "YouTube", "type": "Trailer"}]`), nil
		},
	}
	prov := newTestProvider(t, client, map[string]interface{}{"video_url": "https://example.com/watch"})

	got, err := prov.Best(context.Background(), mustQuery(t, "Inception"))
	if err != nil {
		t.Fatalf("Best() error = %v", err)
	}
	want := &provider.TrailerRecord{
		URL:    "https://example.com/watch?v=v1",
		Title:  "Inception Trailer",
		Source: provider.SourceMetadata,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Best() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{27205}, lookedUp); diff != "" {
		t.Errorf("looked up ids mismatch (-want +got):\n%s", diff)
	}
}

func TestBest_NoTrailer(t *testing.T) {
	client := &mockTMDBClient{
		searchMovieFunc: func(string, map[string]string) (*tmdb.MovieSearchResults, error) {
			return searchResults(tmdb.MovieShort{ID: 1, Title: "Obscure"}), nil
		},
		getMovieInfoFunc: func(id int, options map[string]string) (*tmdb.Movie, error) {
			return &tmdb.Movie{ID: id, Title: "Obscure"}, nil
		},
		getMovieVideosFunc: func(id int, options map[string]string) (*tmdb.MovieVideos, error) {
			return videosJSON(t, id, `[]`), nil
		},
	}
	prov := newTestProvider(t, client, nil)

	got, err := prov.Best(context.Background(), mustQuery(t, "Obscure"))
	if err != nil {
		t.Fatalf("Best() error = %v", err)
	}
	if got != nil {
		t.Errorf("Best() = %+v, want nil", got)
	}
}

func TestPickTrailerKey(t *testing.T) {
	tests := []struct {
		name   string
		videos []video
		want   string
	}{
		{name: "none", videos: nil, want: ""},
		{
			name: "trailer_beats_teaser",
			videos: []video{
				{Key: "teaser", Site: "YouTube", Type: "Teaser"},
				{Key: "trailer", Site: "YouTube", Type: "Trailer"},
			},
			want: "trailer",
		},
		{
			name:   "teaser_fallback",
			videos: []video{{Key: "teaser", Site: "YouTube", Type: "Teaser"}},
			want:   "teaser",
		},
		{
			name:   "non_youtube_ignored",
			videos: []video{{Key: "vimeo", Site: "Vimeo", Type: "Trailer"}},
			want:   "",
		},
		{
			name:   "empty_key_ignored",
			videos: []video{{Key: "", Site: "YouTube", Type: "Trailer"}},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickTrailerKey(tt.videos); got != tt.want {
				t.Errorf("pickTrailerKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMapError(t *testing.T) {
	prov := New(nil)
	tests := []struct {
		err  error
		code string
	}{
		{errors.New("401 Unauthorized"), "AUTH_FAILED"},
		{errors.New("429 Too Many Requests"), "RATE_LIMITED"},
		{errors.New("503 Service Unavailable"), "UNAVAILABLE"},
		{errors.New("The resource you requested could not be found."), "NOT_FOUND"},
		{errors.New("boom"), "UNKNOWN"},
	}

	for _, tt := range tests {
		var provErr *provider.ProviderError
		if !errors.As(prov.mapError(tt.err), &provErr) {
			t.Fatalf("mapError(%v) did not return a ProviderError", tt.err)
		}
		if provErr.Code != tt.code {
			t.Errorf("mapError(%v) code = %s, want %s", tt.err, provErr.Code, tt.code)
		}
	}

	if err := prov.mapError(context.Canceled); !errors.Is(err, context.Canceled) {
		t.Errorf("mapError(context.Canceled) = %v, want passthrough", err)
	}
}
