package models

// Game is the canonical enriched library entry handed back to every caller.
// Description is always populated on a successful provider path; optional
// fields stay nil rather than erroring out.
type Game struct {
	Title            string   `json:"title"`
	Platform         *string  `json:"platform"`
	Source           *string  `json:"source"`
	RecordID         *int64   `json:"record_id"`
	Description      string   `json:"description"`
	ThumbnailURL     *string  `json:"thumbnail_url"`
	CoverURL         *string  `json:"cover_url"`
	TrailerURL       *string  `json:"trailer_url"`
	GalleryURLs      []string `json:"gallery_urls"`
	Rating           *float64 `json:"rating"`
	RatingMatchTitle *string  `json:"rating_match_title"`
	RatingVerified   bool     `json:"rating_verified"`
	RatingManual     bool     `json:"rating_manual"`
	IgdbMatch        bool     `json:"igdb_match"`
	Status           string   `json:"status"`
	FinishCount      int      `json:"finish_count"`
	Genres           []string `json:"genres"`
}

const StatusNotAllocated = "not_allocated"

type GameCollection struct {
	Games []*Game `json:"games"`
}

// Suggestion is a lightweight autocomplete candidate from the catalog.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	RecordID    *int64 `json:"record_id"`
}

type SuggestionCollection struct {
	Suggestions []*Suggestion `json:"suggestions"`
}

// RatingEntry is one critic-rating search result.
type RatingEntry struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}
