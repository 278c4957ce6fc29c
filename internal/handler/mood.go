package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetMood godoc
// @Summary      Get the current social-media mood for a stock
// @Description  Fetches recent Reddit posts, scores them, and returns the aggregate polarity
// @Tags         mood
// @Produce      json
// @Param        symbol  path  string  true  "Stock symbol (e.g., TSLA, AAPL)"
// @Success      200  {object}  domain.MoodSummary
// @Failure      400  {object}  map[string]string
// @Router       /api/mood/{symbol} [get]
func (h *Handler) GetMood(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-mood")
	defer span.End()

	symbol := strings.ToUpper(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	mood, err := h.pipeline.Mood(ctx, symbol)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, mood)
}

// GetBars godoc
// @Summary      Get daily price history for a stock
// @Description  Returns the stored daily close/volume bars, oldest first
// @Tags         bars
// @Produce      json
// @Param        symbol  path  string  true  "Stock symbol (e.g., TSLA, AAPL)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/bars/{symbol} [get]
func (h *Handler) GetBars(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-bars")
	defer span.End()

	symbol := strings.ToUpper(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	bars, err := h.pipeline.Bars(ctx, symbol)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "bars": bars})
}

// GetFused godoc
// @Summary      Get the aligned sentiment-and-price series for a stock
// @Description  Returns one row per trading day with close, volume, and aggregated sentiment
// @Tags         mood
// @Produce      json
// @Param        symbol  path  string  true  "Stock symbol (e.g., TSLA, AAPL)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /api/fused/{symbol} [get]
func (h *Handler) GetFused(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-fused")
	defer span.End()

	symbol := strings.ToUpper(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	rows, err := h.pipeline.FusedSeries(ctx, symbol)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "rows": rows})
}
