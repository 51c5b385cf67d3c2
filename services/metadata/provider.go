package metadata

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"github.com/webtor-io/lazymap"

	"github.com/gamelib-io/web-ui/models"
	gt "github.com/gamelib-io/web-ui/services/gametitle"
	"github.com/gamelib-io/web-ui/services/igdb"
)

const (
	candidatesLimit  = 10
	suggestionsLimit = 5
)

// Provider is the resolution orchestrator: cache lookup, catalog attempt,
// placeholder fallback, critic-rating overlay.
//
// The resolve cache is unbounded and never evicted; a personal game list
// keeps its cardinality small. Catalog-path entries are stored before the
// rating overlay, so a cache hit returns exactly what was stored.
type Provider struct {
	primary     *IgdbProvider
	placeholder *Placeholder
	ratings     *RatingIndex

	mu    sync.Mutex
	cache map[string]*models.Game

	suggestions lazymap.LazyMap[[]*models.Suggestion]
}

func New(c *cli.Context, api *igdb.Api) *Provider {
	primary := NewIgdbProvider(api)
	if primary != nil {
		log.Info("igdb metadata provider enabled")
	} else {
		log.Warn("IGDB_CLIENT_ID/IGDB_CLIENT_SECRET not set, using placeholder metadata")
	}
	return &Provider{
		primary:     primary,
		placeholder: NewPlaceholder(),
		ratings:     NewRatingIndex(c),
		cache:       map[string]*models.Game{},
		suggestions: *lazymap.New[[]*models.Suggestion](&lazymap.Config{
			Expire:      10 * time.Minute,
			ErrorExpire: 10 * time.Second,
		}),
	}
}

// HasCatalog reports whether the external catalog is configured.
func (s *Provider) HasCatalog() bool {
	return s.primary != nil
}

// Ratings exposes the critic-rating index.
func (s *Provider) Ratings() *RatingIndex {
	return s.ratings
}

func cacheKey(title string, platform, source *string, recordID *int64) string {
	id := ""
	if recordID != nil {
		id = strconv.FormatInt(*recordID, 10)
	}
	return fmt.Sprintf("%s|%s|%s|%s",
		gt.NormalizeKey(title), normalizeOptional(platform), normalizeOptional(source), id)
}

func normalizeOptional(value *string) string {
	if value == nil {
		return ""
	}
	return gt.NormalizeKey(*value)
}

// Resolve returns a fully-populated game record for the given key. It never
// fails: catalog misses yield an empty-but-valid record, transport failures
// fall back to offline placeholders.
func (s *Provider) Resolve(ctx context.Context, title string, platform, source *string, recordID *int64) *models.Game {
	key := cacheKey(title, platform, source, recordID)
	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()
		log.Debugf("metadata cache hit for title=%q", title)
		return cached
	}
	s.mu.Unlock()

	if s.primary != nil {
		game, err := s.primary.BuildGame(ctx, title, platform, source, recordID)
		switch {
		case err == nil:
			game.IgdbMatch = true
			s.store(key, game)
			return s.applyRating(game)
		case errors.Is(err, ErrNoMatch):
			log.Infof("no igdb match for title=%q", title)
			game = emptyGame(title, platform, source, recordID)
			s.store(key, game)
			return s.applyRating(game)
		default:
			log.WithError(err).Warn("falling back to placeholder metadata")
		}
	}

	game := s.placeholder.BuildGame(title, platform, source)
	game.IgdbMatch = false
	game = s.applyRating(game)
	s.store(key, game)
	return game
}

func (s *Provider) store(key string, game *models.Game) {
	s.mu.Lock()
	s.cache[key] = game
	s.mu.Unlock()
	log.Debugf("metadata cache store for key=%q", key)
}

// applyRating overlays the critic rating found for the resolved title onto a
// copy of the record.
func (s *Provider) applyRating(game *models.Game) *models.Game {
	overlaid := *game
	rating, matchTitle := s.ratings.Lookup(game.Title)
	overlaid.Rating = rating
	overlaid.RatingMatchTitle = matchTitle
	overlaid.RatingVerified = false
	overlaid.RatingManual = false
	return &overlaid
}

func emptyGame(title string, platform, source *string, recordID *int64) *models.Game {
	if source == nil {
		source = platform
	}
	return &models.Game{
		Title:       title,
		Platform:    platform,
		Source:      source,
		RecordID:    recordID,
		GalleryURLs: []string{},
		Status:      models.StatusNotAllocated,
		Genres:      []string{},
	}
}

// SearchCandidates returns up to limit fully-built records for UI
// disambiguation, in the catalog's ranking order. Without a catalog, or when
// the catalog fails, the single placeholder record is returned.
func (s *Provider) SearchCandidates(ctx context.Context, title string, platform, source *string, limit int) []*models.Game {
	if limit <= 0 {
		limit = candidatesLimit
	}
	if s.primary == nil {
		return []*models.Game{s.placeholder.BuildGame(title, platform, source)}
	}
	records, err := s.primary.Api().SearchGames(ctx, title, limit, false)
	if err != nil {
		log.WithError(err).Warn("failed to fetch igdb choices")
		return []*models.Game{s.placeholder.BuildGame(title, platform, source)}
	}
	log.Debugf("candidate search for %q yielded %d records", title, len(records))
	games := make([]*models.Game, 0, len(records))
	for i := range records {
		games = append(games, s.primary.BuildGameFromRecord(&records[i], title, platform, source))
	}
	if len(games) == 0 {
		return []*models.Game{s.placeholder.BuildGame(title, platform, source)}
	}
	return games
}

// Suggestions returns lightweight autocomplete candidates straight from the
// catalog. Empty when no catalog is configured or the call fails; results
// are memoized briefly to spare the catalog.
func (s *Provider) Suggestions(ctx context.Context, title string, limit int) []*models.Suggestion {
	if limit <= 0 {
		limit = suggestionsLimit
	}
	if s.primary == nil {
		log.Debug("no igdb provider configured, returning empty suggestions")
		return nil
	}
	key := fmt.Sprintf("%s|%d", gt.NormalizeKey(title), limit)
	suggestions, err := s.suggestions.Get(key, func() ([]*models.Suggestion, error) {
		return s.fetchSuggestions(ctx, title, limit)
	})
	if err != nil {
		log.WithError(err).Warn("failed to fetch suggestions")
		return nil
	}
	return suggestions
}

func (s *Provider) fetchSuggestions(ctx context.Context, title string, limit int) ([]*models.Suggestion, error) {
	records, err := s.primary.Api().SearchGames(ctx, title, limit, false)
	if err != nil {
		return nil, err
	}
	var suggestions []*models.Suggestion
	for _, record := range records {
		if record.Name == "" {
			continue
		}
		recordID := record.ID
		suggestions = append(suggestions, &models.Suggestion{
			Title:       record.Name,
			Description: record.Summary,
			RecordID:    &recordID,
		})
	}
	log.Debugf("suggestion search for %q produced %d candidates", title, len(suggestions))
	return suggestions, nil
}

// SearchRatings exposes the ranked critic-rating search.
func (s *Provider) SearchRatings(query string, limit int) []*models.RatingEntry {
	return s.ratings.Search(query, limit)
}
