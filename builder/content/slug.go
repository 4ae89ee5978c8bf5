package content

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugUnsafe = regexp.MustCompile(`[^a-z0-9\-]+`)
	slugDashes = regexp.MustCompile(`-{2,}`)
	slugValid  = regexp.MustCompile(`^[a-z0-9][a-z0-9\-]*$`)
)

const maxSlugLen = 100

// ErrInvalidSlug is returned for slugs that cannot name a file or a URL
// segment.
var ErrInvalidSlug = errors.New("invalid slug")

// Slugify converts a title to a URL and filename safe slug.
func Slugify(title string) string {
	// Fold accents: "Café" -> "Cafe"
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	slug, _, err := transform.String(fold, title)
	if err != nil {
		slug = title
	}

	slug = strings.ToLower(strings.TrimSpace(slug))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")
	slug = slugUnsafe.ReplaceAllString(slug, "")
	slug = slugDashes.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return slug
}

// ValidSlug reports whether s can be used as a draft file name.
func ValidSlug(s string) bool {
	return len(s) <= maxSlugLen && slugValid.MatchString(s)
}
