package news

import (
	"mime"
	"net/url"
	"path"
	"regexp"
	"strings"
)

const maxFileNameRunes = 128

var invalidFileNameChars = regexp.MustCompile(`[^-\p{L}\p{N}_. ]`)

// SanitizeFileName maps an arbitrary string (URL tail or page title)
// to a filesystem-safe file name: anything outside letters, digits,
// underscore, hyphen, dot and space is dropped, remaining spaces
// become underscores, and the result is capped at 128 runes.
// Idempotent.
func SanitizeFileName(s string) string {
	s = invalidFileNameChars.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.ReplaceAll(s, " ", "_")
	runes := []rune(s)
	if len(runes) > maxFileNameRunes {
		return string(runes[:maxFileNameRunes])
	}
	return s
}

// MediaTypeKnown reports whether a media type can be inferred from the
// URL's path extension.
func MediaTypeKnown(rawURL string) bool {
	ext := path.Ext(urlPath(rawURL))
	if ext == "" {
		return false
	}
	return mime.TypeByExtension(ext) != ""
}

// URLTail returns the last path segment of the URL, or the
// second-to-last when the URL ends with a separator.
func URLTail(rawURL string) string {
	parts := strings.Split(rawURL, "/")
	if len(parts) == 0 {
		return rawURL
	}
	if strings.HasSuffix(rawURL, "/") && len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	return parts[len(parts)-1]
}

// ArticleFileName derives the file name for a story's article body:
// the URL tail when its media type is recognizable, the story name
// with an .html suffix otherwise. Always sanitized.
func ArticleFileName(story Story) string {
	if MediaTypeKnown(story.URL) {
		return SanitizeFileName(URLTail(story.URL))
	}
	return SanitizeFileName(story.Name + ".html")
}

// ResourceFileName derives the file name for a resource linked from a
// comment thread. When the media type is inferable from the URL the
// tail segment is used directly; otherwise the caller supplies the
// document title (may be empty) and the name falls back to
// <title>.html, or <tail>.html when no title was found.
func ResourceFileName(rawURL, title string) string {
	if MediaTypeKnown(rawURL) {
		return SanitizeFileName(URLTail(rawURL))
	}
	if title == "" {
		title = URLTail(rawURL)
	}
	return SanitizeFileName(title + ".html")
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.Path == "" {
		return rawURL
	}
	return u.Path
}
