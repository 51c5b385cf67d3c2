package game

import (
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/gamelib-io/web-ui/models"
	"github.com/gamelib-io/web-ui/services/gamelist"
	"github.com/gamelib-io/web-ui/services/metadata"
)

type Handler struct {
	provider *metadata.Provider
}

func RegisterHandler(r *gin.Engine, provider *metadata.Provider) {
	h := &Handler{
		provider: provider,
	}
	gr := r.Group("/api")
	gr.GET("/health", h.health)
	gr.GET("/games/sample", h.sample)
	gr.POST("/games/upload", h.upload)
	gr.POST("/games/create", h.create)
	gr.POST("/games/search", h.search)
	gr.POST("/games/candidates", h.candidates)
}

type gameRequest struct {
	Title    string  `json:"title"`
	Platform *string `json:"platform"`
	Source   *string `json:"source"`
	RecordID *int64  `json:"record_id"`
	Limit    int     `json:"limit"`
}

func (s *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Handler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		log.WithError(err).Error("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer func() {
		_ = f.Close()
	}()
	contents, err := io.ReadAll(f)
	if err != nil {
		log.WithError(err).Error("failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}
	if len(contents) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file is empty"})
		return
	}
	if !utf8.Valid(contents) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be UTF-8 encoded text"})
		return
	}

	entries := gamelist.Parse(string(contents))
	if len(entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no games were detected, check the file format"})
		return
	}
	games := make([]*models.Game, 0, len(entries))
	for _, entry := range entries {
		games = append(games, s.provider.Resolve(c.Request.Context(), entry.Title, entry.Platform, entry.Source, nil))
	}
	c.JSON(http.StatusOK, models.GameCollection{Games: games})
}

func (s *Handler) create(c *gin.Context) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	game := s.provider.Resolve(c.Request.Context(), title, req.Platform, req.Source, req.RecordID)
	c.JSON(http.StatusOK, game)
}

func (s *Handler) search(c *gin.Context) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	log.Debugf("received manual search for title=%q", title)
	matches := s.provider.Suggestions(c.Request.Context(), title, req.Limit)
	if len(matches) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no matches found"})
		return
	}
	c.JSON(http.StatusOK, models.SuggestionCollection{Suggestions: matches})
}

func (s *Handler) candidates(c *gin.Context) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	games := s.provider.SearchCandidates(c.Request.Context(), title, req.Platform, req.Source, req.Limit)
	c.JSON(http.StatusOK, models.GameCollection{Games: games})
}

var sampleEntries = []gamelist.Entry{
	{Title: "Elden Ring", Platform: strPtr("Steam"), Source: strPtr("Steam")},
	{Title: "Hades", Platform: strPtr("Epic"), Source: strPtr("Epic")},
	{Title: "The Witcher 3: Wild Hunt", Platform: strPtr("GOG"), Source: strPtr("GOG")},
	{Title: "Doom Eternal", Platform: strPtr("Steam"), Source: strPtr("Steam")},
	{Title: "God of War", Platform: strPtr("Steam"), Source: strPtr("Steam")},
}

func strPtr(s string) *string {
	return &s
}

func (s *Handler) sample(c *gin.Context) {
	games := make([]*models.Game, 0, len(sampleEntries))
	for _, entry := range sampleEntries {
		games = append(games, s.provider.Resolve(c.Request.Context(), entry.Title, entry.Platform, entry.Source, nil))
	}
	c.JSON(http.StatusOK, models.GameCollection{Games: games})
}
