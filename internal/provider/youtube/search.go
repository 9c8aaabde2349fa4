package youtube

import (
	"context"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// VideoHit is a single search result.
type VideoHit struct {
	VideoID      string
	SnippetTitle string
}

// Searcher runs a keyword search and returns up to maxResults hits.
type Searcher interface {
	Search(ctx context.Context, q string, maxResults int64) ([]VideoHit, error)
}

// apiSearcher is the Searcher backed by the YouTube Data API.
type apiSearcher struct {
	service *youtube.Service
}

func newAPISearcher(ctx context.Context, apiKey, endpoint string) (*apiSearcher, error) {
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &apiSearcher{service: service}, nil
}

func (s *apiSearcher) Search(ctx context.Context, q string, maxResults int64) ([]VideoHit, error) {
	resp, err := s.service.Search.List([]string{"id", "snippet"}).
		Q(q).
		Type("video").
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	hits := make([]VideoHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		// Channels and playlists carry no video id.
		if item == nil || item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		hits = append(hits, VideoHit{
			VideoID:      item.Id.VideoId,
			SnippetTitle: item.Snippet.Title,
		})
	}
	return hits, nil
}
