package gamelist

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// storeKeywords is the fixed vocabulary of storefront prefixes recognized at
// the start of a line. The keyword check is what keeps colons inside regular
// titles ("Baldur's Gate: Dark Alliance") from being misparsed as a source.
var storeKeywords = map[string]struct{}{
	"steam":            {},
	"epic":             {},
	"epic games":       {},
	"epic games store": {},
	"gog":              {},
	"gog galaxy":       {},
	"amazon":           {},
	"prime gaming":     {},
}

var titleCaser = cases.Title(language.English)

// Entry is one parsed game-list line.
type Entry struct {
	Title    string
	Platform *string
	Source   *string
}

// ParseLine parses a single free-text line into an Entry. Blank lines,
// comments and lines with an empty title yield nil.
func ParseLine(line string) *Entry {
	raw := strings.TrimSpace(line)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return nil
	}

	var source *string
	if idx := strings.Index(raw, ":"); idx >= 0 {
		maybeSource := strings.TrimSpace(raw[:idx])
		remainder := strings.TrimSpace(raw[idx+1:])
		if _, ok := storeKeywords[strings.ToLower(maybeSource)]; ok && remainder != "" {
			s := titleCaser.String(strings.ToLower(maybeSource))
			source = &s
			raw = remainder
		}
	}

	var platform *string
	if idx := strings.Index(raw, "|"); idx >= 0 {
		platformPart := strings.TrimSpace(raw[idx+1:])
		raw = strings.TrimSpace(raw[:idx])
		if platformPart != "" {
			platform = &platformPart
		}
	}

	title := strings.TrimSpace(raw)
	if title == "" {
		return nil
	}

	if source != nil && platform == nil {
		platform = source
	}

	return &Entry{
		Title:    title,
		Platform: platform,
		Source:   source,
	}
}

// Parse splits a raw multi-line payload into entries. Malformed lines are
// skipped, never errored; an empty result is the caller's problem.
func Parse(payload string) []*Entry {
	var entries []*Entry
	for _, line := range strings.Split(payload, "\n") {
		if entry := ParseLine(line); entry != nil {
			entries = append(entries, entry)
		}
	}
	return entries
}
