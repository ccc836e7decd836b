package catalog

import "strings"

const (
	posterBase     = "https://image.tmdb.org/t/p/w500"
	posterFallback = "/assets/no-poster.jpg"
)

// PosterURL turns a catalog poster path into a URL.  Absolute URLs are
// returned unchanged and an empty path maps to the placeholder image.
func PosterURL(path string) string {
	switch {
	case path == "":
		return posterFallback
	case strings.HasPrefix(path, "http"):
		return path
	default:
		return posterBase + path
	}
}
