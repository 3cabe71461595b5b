package udaxgui

import (
	"net/url"
	"path"
	"strings"

	"github.com/eringen/udaxgui/blog"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// pathParam undoes percent-encoding of a route segment such as a Cyrillic
// slug. Malformed escapes are returned as is.
func pathParam(raw string) string {
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}

// activeCategory reads the ?category= filter, defaulting to the "all"
// sentinel.
func activeCategory(raw string) string {
	label := strings.TrimSpace(raw)
	if label == "" || label == blog.AllSlug {
		return blog.AllLabel
	}
	return label
}

func countPosts(posts []blog.Post) (published, featured int) {
	for _, p := range posts {
		if p.Published {
			published++
		}
		if p.Featured {
			featured++
		}
	}
	return published, featured
}
