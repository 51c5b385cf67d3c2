package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/gamelib-io/web-ui/models"
	gt "github.com/gamelib-io/web-ui/services/gametitle"
	"github.com/gamelib-io/web-ui/services/igdb"
)

// ErrNoMatch reports that the catalog returned no usable candidate. It is a
// recoverable outcome, not a transport failure.
var ErrNoMatch = errors.New("no catalog match")

const (
	searchLimit     = 5
	maxGalleryItems = 6

	thumbnailURLTemplate = "https://images.igdb.com/igdb/image/upload/t_cover_big/%s.jpg"
	coverURLTemplate     = "https://images.igdb.com/igdb/image/upload/t_1080p/%s.jpg"
	galleryURLTemplate   = "https://images.igdb.com/igdb/image/upload/t_screenshot_huge/%s.jpg"
	trailerURLTemplate   = "https://www.youtube.com/embed/%s?rel=0"
)

// Candidates carrying these keywords are skipped during selection unless the
// user typed the keyword themselves.
var excludedKeywords = []string{"bundle", "mobile"}

// IgdbProvider builds game records from the external catalog.
type IgdbProvider struct {
	api *igdb.Api
}

// NewIgdbProvider returns nil when no catalog client is configured.
func NewIgdbProvider(api *igdb.Api) *IgdbProvider {
	if api == nil {
		return nil
	}
	return &IgdbProvider{api: api}
}

// Api exposes the underlying catalog client for raw searches.
func (s *IgdbProvider) Api() *igdb.Api {
	return s.api
}

// BuildGame resolves a title against the catalog. A known record id is tried
// first; otherwise the best search candidate wins. Returns ErrNoMatch when
// nothing can be selected.
func (s *IgdbProvider) BuildGame(ctx context.Context, title string, platform, source *string, recordID *int64) (*models.Game, error) {
	if recordID != nil {
		record, err := s.api.GetGameByID(ctx, *recordID)
		if err != nil {
			return nil, err
		}
		if record != nil {
			return s.BuildGameFromRecord(record, title, platform, source), nil
		}
	}

	records, err := s.api.SearchGames(ctx, title, searchLimit, true)
	if err != nil {
		return nil, err
	}
	record := selectRecord(records, title)
	if record == nil {
		return nil, errors.Wrapf(ErrNoMatch, "title %q", title)
	}
	return s.BuildGameFromRecord(record, title, platform, source), nil
}

// BuildGameFromRecord turns a raw catalog record into a game record. The
// user-supplied title wins over the catalog name when non-empty.
func (s *IgdbProvider) BuildGameFromRecord(record *igdb.Record, fallbackTitle string, platform, source *string) *models.Game {
	thumbnail, cover := imageURLs(record, fallbackTitle)
	gallery := galleryURLs(record, fallbackTitle)
	trailer := trailerURL(record)
	if trailer == "" {
		trailer = DefaultTrailer
	}
	description := record.Summary
	if description == "" {
		description = DefaultDescription
	}

	resolvedPlatform := platform
	if resolvedPlatform == nil {
		resolvedPlatform = platformName(record)
	}
	resolvedSource := source
	if resolvedSource == nil {
		resolvedSource = resolvedPlatform
	}

	resolvedTitle := strings.TrimSpace(fallbackTitle)
	if resolvedTitle == "" {
		resolvedTitle = record.Name
	}
	if resolvedTitle == "" {
		resolvedTitle = "Untitled Game"
	}

	recordID := record.ID
	return &models.Game{
		Title:        resolvedTitle,
		Platform:     resolvedPlatform,
		Source:       resolvedSource,
		RecordID:     &recordID,
		Description:  description,
		ThumbnailURL: &thumbnail,
		CoverURL:     &cover,
		TrailerURL:   &trailer,
		GalleryURLs:  gallery,
		Status:       models.StatusNotAllocated,
		Genres:       genreNames(record),
	}
}

// selectRecord walks candidates in service order and skips noisy re-releases
// unless the user's own query already carried the keyword. Falls back to the
// first result when everything got skipped.
func selectRecord(records []igdb.Record, originalTitle string) *igdb.Record {
	normalizedInput := gt.NormalizeKey(gt.StripKeywords(originalTitle))
	for i := range records {
		lowerName := strings.ToLower(records[i].Name)
		excluded := false
		for _, keyword := range excludedKeywords {
			if strings.Contains(lowerName, keyword) && !strings.Contains(normalizedInput, keyword) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		return &records[i]
	}
	if len(records) > 0 {
		return &records[0]
	}
	return nil
}

// imageID prefers the cover, then the first screenshot, then the first
// artwork.
func imageID(record *igdb.Record) string {
	if record.Cover != nil && record.Cover.ImageID != "" {
		return record.Cover.ImageID
	}
	for _, entries := range [][]igdb.Image{record.Screenshots, record.Artworks} {
		if len(entries) > 0 && entries[0].ImageID != "" {
			return entries[0].ImageID
		}
	}
	return ""
}

func imageURLs(record *igdb.Record, title string) (string, string) {
	id := imageID(record)
	if id == "" {
		return gt.PlaceholderAssets(title)
	}
	return fmt.Sprintf(thumbnailURLTemplate, id), fmt.Sprintf(coverURLTemplate, id)
}

func galleryURLs(record *igdb.Record, title string) []string {
	var gallery []string
	for _, entries := range [][]igdb.Image{record.Screenshots, record.Artworks} {
		for _, entry := range entries {
			if len(gallery) >= maxGalleryItems {
				break
			}
			if entry.ImageID != "" {
				gallery = append(gallery, fmt.Sprintf(galleryURLTemplate, entry.ImageID))
			}
		}
	}
	if len(gallery) == 0 {
		return gt.PlaceholderGallery(title, galleryCount)
	}
	return gallery
}

func trailerURL(record *igdb.Record) string {
	if len(record.Videos) == 0 || record.Videos[0].VideoID == "" {
		return ""
	}
	return fmt.Sprintf(trailerURLTemplate, record.Videos[0].VideoID)
}

func platformName(record *igdb.Record) *string {
	if len(record.Platforms) == 0 {
		return nil
	}
	name := record.Platforms[0].Abbreviation
	if name == "" {
		name = record.Platforms[0].Name
	}
	if name == "" {
		return nil
	}
	return &name
}

func genreNames(record *igdb.Record) []string {
	names := make([]string, 0, len(record.Genres))
	for _, genre := range record.Genres {
		if genre.Name != "" {
			names = append(names, genre.Name)
		}
	}
	return names
}
