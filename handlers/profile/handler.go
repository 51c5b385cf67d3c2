package profile

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/gamelib-io/web-ui/models"
	"github.com/gamelib-io/web-ui/services/metadata"
)

const profileFilename = "profile.json"

type Handler struct {
	provider *metadata.Provider
}

func RegisterHandler(r *gin.Engine, provider *metadata.Provider) {
	h := &Handler{
		provider: provider,
	}
	gr := r.Group("/api/profile")
	gr.POST("/save", h.save)
	gr.POST("/load", h.load)
	gr.POST("/delete", h.delete)
}

type entry struct {
	Title    string  `json:"title"`
	Platform *string `json:"platform"`
	Source   *string `json:"source"`
	RecordID *int64  `json:"record_id"`
}

type saveRequest struct {
	Directory string  `json:"directory"`
	Games     []entry `json:"games"`
}

type directoryRequest struct {
	Directory string `json:"directory"`
}

func profileFile(directory string) (string, error) {
	if strings.HasPrefix(directory, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			directory = filepath.Join(home, strings.TrimPrefix(directory, "~"))
		}
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(directory, profileFilename), nil
}

func (s *Handler) save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Directory == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "directory is required"})
		return
	}
	path, err := profileFile(req.Directory)
	if err != nil {
		log.WithError(err).Error("failed to prepare profile directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare profile directory"})
		return
	}
	data, err := json.MarshalIndent(req.Games, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode profile"})
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.WithError(err).Error("failed to write profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

func (s *Handler) load(c *gin.Context) {
	var req directoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Directory == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "directory is required"})
		return
	}
	path, err := profileFile(req.Directory)
	if err != nil {
		log.WithError(err).Error("failed to prepare profile directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare profile directory"})
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile file is invalid JSON"})
		return
	}
	var games []*models.Game
	for _, e := range entries {
		if e.Title == "" {
			continue
		}
		games = append(games, s.provider.Resolve(c.Request.Context(), e.Title, e.Platform, e.Source, e.RecordID))
	}
	if len(games) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile contains no games"})
		return
	}
	c.JSON(http.StatusOK, models.GameCollection{Games: games})
}

func (s *Handler) delete(c *gin.Context) {
	var req directoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Directory == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "directory is required"})
		return
	}
	path, err := profileFile(req.Directory)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare profile directory"})
		return
	}
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err := os.Remove(path); err != nil {
		log.WithError(err).Error("failed to delete profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
