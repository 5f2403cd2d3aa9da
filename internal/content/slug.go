package content

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9 -]`)
	slugSpaces     = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// Slug turns a title into its URL form: "Blue Hour, No. 2" -> "blue-hour-no-2".
func Slug(text string) string {
	s := strings.ToLower(text)
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugToTitle is a best-effort reverse of Slug for display when the piece
// itself is unavailable.
func SlugToTitle(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w != "" {
			r, size := utf8.DecodeRuneInString(w)
			words[i] = string(unicode.ToUpper(r)) + w[size:]
		}
	}
	return strings.Join(words, " ")
}

func FindBySlug(pieces []domain.ArtPiece, slug string) (domain.ArtPiece, bool) {
	for _, p := range pieces {
		if Slug(p.Title) == slug {
			return p, true
		}
	}
	return domain.ArtPiece{}, false
}
