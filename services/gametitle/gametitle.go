package gametitle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

var nonAlnumRE = regexp.MustCompile(`[^a-z0-9]+`)

// stripKeywords entries are ordered longest-first so multi-word marketing
// phrases get removed before their fragments.
var stripKeywords = []string{
	"game of the year",
	"edition",
	"goty",
}

// NormalizeKey lowercases a title and collapses every run of
// non-alphanumeric characters into a single space. It is idempotent and is
// the identity used for caching and rating lookups.
func NormalizeKey(value string) string {
	cleaned := nonAlnumRE.ReplaceAllString(strings.ToLower(value), " ")
	return strings.TrimSpace(cleaned)
}

// Slugify returns a hyphenated normalized key, falling back to "game" for
// titles that normalize to nothing.
func Slugify(value string) string {
	slug := strings.ReplaceAll(NormalizeKey(value), " ", "-")
	if slug == "" {
		return "game"
	}
	return slug
}

// StripKeywords removes edition/year-of-the-year marketing keywords from the
// normalized form of a title. Used only to widen catalog search recall,
// never for identity.
func StripKeywords(value string) string {
	normalized := NormalizeKey(value)
	for _, keyword := range stripKeywords {
		normalized = strings.ReplaceAll(normalized, keyword, " ")
	}
	normalized = strings.TrimSpace(strings.Join(strings.Fields(normalized), " "))
	if normalized == "" {
		return value
	}
	return normalized
}

func placeholderArt(seed string, width, height int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/%d/%d", seed, width, height)
}

// slugAndSeed derives a stable slug and hash seed for a title so that
// placeholder art stays identical across processes.
func slugAndSeed(title string) (string, string) {
	normalized := NormalizeKey(title)
	digest := sha256.Sum256([]byte(normalized))
	return Slugify(title), hex.EncodeToString(digest[:])[:8]
}

// PlaceholderAssets returns deterministic thumbnail and cover URLs for a
// title.
func PlaceholderAssets(title string) (string, string) {
	slug, seed := slugAndSeed(title)
	thumbnail := placeholderArt(fmt.Sprintf("%s-%s-thumb", slug, seed), 320, 200)
	cover := placeholderArt(fmt.Sprintf("%s-%s-cover", slug, seed), 512, 768)
	return thumbnail, cover
}

// PlaceholderGallery returns a deterministic set of gallery URLs for a title.
func PlaceholderGallery(title string, count int) []string {
	slug, seed := slugAndSeed(title)
	gallery := make([]string, 0, count)
	for i := 0; i < count; i++ {
		gallery = append(gallery, placeholderArt(fmt.Sprintf("%s-%s-gallery-%d", slug, seed, i), 1024, 576))
	}
	return gallery
}
