package provider

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultVideoURL is the watch page template used when none is configured.
const DefaultVideoURL = "https://www.youtube.com/watch"

// BuildVideoURL injects videoID as the single "v" query parameter of the
// base watch URL, replacing any existing "v" values and keeping the rest.
func BuildVideoURL(base, videoID string) (string, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return "", fmt.Errorf("video id is required")
	}

	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("invalid video url template %q: %w", base, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("video url template %q is not absolute", base)
	}

	query := u.Query()
	query.Set("v", videoID)
	u.RawQuery = query.Encode()

	return u.String(), nil
}
