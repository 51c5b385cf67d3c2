package rating

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gamelib-io/web-ui/models"
	"github.com/gamelib-io/web-ui/services/metadata"
)

const defaultLimit = 8

type Handler struct {
	provider *metadata.Provider
}

func RegisterHandler(r *gin.Engine, provider *metadata.Provider) {
	h := &Handler{
		provider: provider,
	}
	r.GET("/api/ratings/search", h.search)
}

func (s *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	limit := defaultLimit
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}
	ratings := s.provider.SearchRatings(query, limit)
	if ratings == nil {
		ratings = []*models.RatingEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}
