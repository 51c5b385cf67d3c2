package metadata

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/hbollon/go-edlib"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/gamelib-io/web-ui/models"
	gt "github.com/gamelib-io/web-ui/services/gametitle"
)

const (
	ratingsPathFlag = "ratings-path"

	// Fuzzy lookups below this similarity are rejected.
	lookupMinSimilarity = 0.6
	// Ranked search keeps candidates above this floor.
	searchMinSimilarity = 0.35
	// Candidates containing the query as a substring get this bonus.
	substringBonus = 0.25
)

func RegisterRatingFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   ratingsPathFlag,
			Usage:  "path to critic ratings csv",
			Value:  "database/critic_ratings.csv",
			EnvVar: "RATINGS_PATH",
		},
	)
}

type ratingRow struct {
	Title string `csv:"title"`
	Score string `csv:"score"`
}

type ratingEntry struct {
	key   string
	title string
	score float64
}

// RatingIndex holds the critic-ratings dataset: an exact-match map over
// normalized titles plus an ordered entry list for fuzzy fallback. Built once
// and read-only afterwards, safe for concurrent readers.
type RatingIndex struct {
	exact   map[string]ratingEntry
	entries []ratingEntry
}

// NewRatingIndex loads the dataset from the configured CSV path. A missing
// file or unreadable rows degrade to an empty or partial index, never an
// error.
func NewRatingIndex(c *cli.Context) *RatingIndex {
	return loadRatingIndex(c.String(ratingsPathFlag))
}

func loadRatingIndex(path string) *RatingIndex {
	index := &RatingIndex{
		exact: map[string]ratingEntry{},
	}
	f, err := os.Open(path)
	if err != nil {
		log.Warnf("critic ratings file not found at %v", path)
		return index
	}
	defer func() {
		_ = f.Close()
	}()

	var rows []ratingRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		log.WithError(err).Warn("failed to read critic ratings file")
		return index
	}
	for _, row := range rows {
		title := strings.TrimSpace(row.Title)
		scoreValue := strings.TrimSpace(row.Score)
		if title == "" || scoreValue == "" {
			continue
		}
		score, err := strconv.ParseFloat(scoreValue, 64)
		if err != nil {
			continue
		}
		entry := ratingEntry{
			key:   gt.NormalizeKey(title),
			title: title,
			score: score,
		}
		index.exact[entry.key] = entry
		index.entries = append(index.entries, entry)
	}
	log.Infof("loaded %d critic ratings from %v", len(index.entries), path)
	return index
}

func similarity(a, b string) float64 {
	ratio, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(ratio)
}

// Lookup finds a score for a title, exact normalized match first, then the
// best fuzzy candidate at or above the similarity threshold. The matched
// title is returned only when it differs from the query after normalization.
func (s *RatingIndex) Lookup(title string) (*float64, *string) {
	normalized := gt.NormalizeKey(title)
	if normalized == "" {
		return nil, nil
	}

	if entry, ok := s.exact[normalized]; ok {
		return s.match(entry, normalized)
	}

	bestRatio := 0.0
	var best *ratingEntry
	for i := range s.entries {
		ratio := similarity(normalized, s.entries[i].key)
		if ratio > bestRatio {
			bestRatio = ratio
			best = &s.entries[i]
		}
	}
	if best == nil || bestRatio < lookupMinSimilarity {
		return nil, nil
	}
	return s.match(*best, normalized)
}

func (s *RatingIndex) match(entry ratingEntry, normalized string) (*float64, *string) {
	score := entry.score
	if gt.NormalizeKey(entry.title) == normalized {
		return &score, nil
	}
	title := entry.title
	return &score, &title
}

// Search returns rating entries ranked by similarity to the query. Substring
// containment earns a fixed bonus; ties break on title for determinism.
func (s *RatingIndex) Search(query string, limit int) []*models.RatingEntry {
	normalized := gt.NormalizeKey(query)
	if normalized == "" || len(s.entries) == 0 {
		return nil
	}

	type scored struct {
		ratio float64
		entry ratingEntry
	}
	var candidates []scored
	for _, entry := range s.entries {
		ratio := similarity(normalized, entry.key)
		if strings.Contains(entry.key, normalized) {
			ratio += substringBonus
		}
		if ratio < searchMinSimilarity {
			continue
		}
		candidates = append(candidates, scored{ratio: ratio, entry: entry})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ratio != candidates[j].ratio {
			return candidates[i].ratio > candidates[j].ratio
		}
		return candidates[i].entry.title < candidates[j].entry.title
	})

	var results []*models.RatingEntry
	seen := map[string]struct{}{}
	for _, candidate := range candidates {
		if _, ok := seen[candidate.entry.title]; ok {
			continue
		}
		seen[candidate.entry.title] = struct{}{}
		results = append(results, &models.RatingEntry{
			Title: candidate.entry.title,
			Score: candidate.entry.score,
		})
		if len(results) >= limit {
			break
		}
	}
	return results
}

// Len reports how many entries got loaded.
func (s *RatingIndex) Len() int {
	return len(s.entries)
}
