package metadata

import (
	"github.com/gamelib-io/web-ui/models"
	gt "github.com/gamelib-io/web-ui/services/gametitle"
)

const (
	// DefaultDescription is used whenever no richer summary is available.
	DefaultDescription = "Game metadata placeholder. Connect a provider such as IGDB to enrich this entry."
	// DefaultTrailer is used whenever a record carries no video.
	DefaultTrailer = "https://www.youtube.com/embed/dQw4w9WgXcQ?rel=0"

	galleryCount = 4
)

type curatedEntry struct {
	Description  string
	ThumbnailURL string
	CoverURL     string
	TrailerURL   string
	Rating       float64
}

// A light-weight offline catalog that keeps the grid interesting without any
// API keys.
var curated = map[string]curatedEntry{
	"elden ring": {
		Description:  "Claim the Elden Ring and become an Elden Lord in FromSoftware's open-world action RPG.",
		ThumbnailURL: "https://images.igdb.com/igdb/image/upload/t_cover_big/co2mjs.jpg",
		CoverURL:     "https://images.igdb.com/igdb/image/upload/t_1080p/co2mjs.jpg",
		TrailerURL:   "https://www.youtube.com/embed/E3Huy2cdih0?rel=0",
		Rating:       95.0,
	},
	"the witcher 3 wild hunt": {
		Description:  "Geralt of Rivia embarks on his most personal contract across war-torn Northern Kingdoms.",
		ThumbnailURL: "https://images.igdb.com/igdb/image/upload/t_cover_big/co1wyy.jpg",
		CoverURL:     "https://images.igdb.com/igdb/image/upload/t_1080p/co1wyy.jpg",
		TrailerURL:   "https://www.youtube.com/embed/xx8kQ4s5hCY?rel=0",
		Rating:       93.0,
	},
	"hades": {
		Description:  "Battle out of the Underworld in this rogue-like dungeon crawler from Supergiant Games.",
		ThumbnailURL: "https://images.igdb.com/igdb/image/upload/t_cover_big/co25lx.jpg",
		CoverURL:     "https://images.igdb.com/igdb/image/upload/t_1080p/co25lx.jpg",
		TrailerURL:   "https://www.youtube.com/embed/591V2E1jZ1E?rel=0",
		Rating:       94.0,
	},
	"doom eternal": {
		Description:  "Rip and tear across dimensions to stop Hell's invasion once again.",
		ThumbnailURL: "https://images.igdb.com/igdb/image/upload/t_cover_big/co1r87.jpg",
		CoverURL:     "https://images.igdb.com/igdb/image/upload/t_1080p/co1r87.jpg",
		TrailerURL:   "https://www.youtube.com/embed/FkklG9MA0vM?rel=0",
		Rating:       89.0,
	},
	"god of war": {
		Description:  "Kratos and Atreus journey through Norse realms filled with gods and monsters.",
		ThumbnailURL: "https://images.igdb.com/igdb/image/upload/t_cover_big/co1tmu.jpg",
		CoverURL:     "https://images.igdb.com/igdb/image/upload/t_1080p/co1tmu.jpg",
		TrailerURL:   "https://www.youtube.com/embed/K0u_kAWLJOA?rel=0",
		Rating:       94.0,
	},
}

// Placeholder builds fully-formed game records offline. It never fails and
// never touches the network.
type Placeholder struct{}

func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

func (s *Placeholder) BuildGame(title string, platform, source *string) *models.Game {
	entry, curatedHit := curated[gt.NormalizeKey(title)]
	thumbnail, cover := gt.PlaceholderAssets(title)
	description := DefaultDescription
	trailer := DefaultTrailer
	var rating *float64
	if curatedHit {
		description = entry.Description
		trailer = entry.TrailerURL
		thumbnail = entry.ThumbnailURL
		cover = entry.CoverURL
		r := entry.Rating
		rating = &r
	}
	if source == nil {
		source = platform
	}
	return &models.Game{
		Title:        title,
		Platform:     platform,
		Source:       source,
		Description:  description,
		ThumbnailURL: &thumbnail,
		CoverURL:     &cover,
		TrailerURL:   &trailer,
		Rating:       rating,
		GalleryURLs:  gt.PlaceholderGallery(title, galleryCount),
		Status:       models.StatusNotAllocated,
		Genres:       []string{},
	}
}
