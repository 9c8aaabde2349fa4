package provider

import (
	"fmt"
	"net/url"
	"strings"
)

// TrailerRecord is a normalized trailer link produced by any provider.
type TrailerRecord struct {
	URL    string     `json:"url"`
	Title  string     `json:"title"`
	Source SourceKind `json:"-"`
}

// NewTrailerRecord builds a record once both a link and a title are known.
// The link must be an absolute URL.
func NewTrailerRecord(link, title string, source SourceKind) (TrailerRecord, error) {
	if strings.TrimSpace(title) == "" {
		return TrailerRecord{}, fmt.Errorf("trailer title is required")
	}
	if strings.TrimSpace(link) == "" {
		return TrailerRecord{}, fmt.Errorf("trailer url is required")
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return TrailerRecord{}, fmt.Errorf("invalid trailer url %q: %w", link, err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return TrailerRecord{}, fmt.Errorf("trailer url %q is not absolute", link)
	}

	return TrailerRecord{URL: link, Title: title, Source: source}, nil
}

// SearchQuery is the shared, immutable input handed to every provider.
type SearchQuery struct {
	text string
}

// NewSearchQuery trims the search text and rejects it when empty.
func NewSearchQuery(text string) (SearchQuery, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return SearchQuery{}, fmt.Errorf("%w: you must provide search text", ErrInvalidArgument)
	}
	return SearchQuery{text: trimmed}, nil
}

// Text returns the trimmed search text.
func (q SearchQuery) Text() string {
	return q.text
}
