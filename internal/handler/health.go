package handler

import (
	"net/http"

	"mood-swing/internal/domain"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the service
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// GetSymbols godoc
// @Summary      List tracked stock symbols
// @Description  Returns the symbols the service tracks and their subreddits
// @Tags         symbols
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/symbols [get]
func (h *Handler) GetSymbols(c *gin.Context) {
	subreddits := make(map[string][]string, len(domain.SupportedSymbols))
	for _, symbol := range domain.SupportedSymbols {
		subreddits[symbol] = domain.SubredditsFor(symbol)
	}
	c.JSON(http.StatusOK, gin.H{
		"symbols":    domain.SupportedSymbols,
		"subreddits": subreddits,
	})
}
