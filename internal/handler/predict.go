package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// TriggerTraining godoc
// @Summary      Train the prediction model for a stock
// @Description  Runs grid search with cross-validation over fresh data and returns the fit metrics
// @Tags         ml
// @Produce      json
// @Param        symbol  path  string  true  "Stock symbol (e.g., TSLA, AAPL)"
// @Success      200  {object}  domain.TrainingMetrics
// @Failure      400  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/train/{symbol} [post]
func (h *Handler) TriggerTraining(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.trigger-training")
	defer span.End()

	symbol := strings.ToUpper(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	metrics, err := h.pipeline.Train(ctx, symbol)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GetPrediction godoc
// @Summary      Predict next-day price direction for a stock
// @Description  Returns P(down) and P(up) for the next trading day, training first if needed
// @Tags         ml
// @Produce      json
// @Param        symbol  path  string  true  "Stock symbol (e.g., TSLA, AAPL)"
// @Success      200  {object}  domain.PredictionRun
// @Failure      400  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /api/predict/{symbol} [get]
func (h *Handler) GetPrediction(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-prediction")
	defer span.End()

	symbol := strings.ToUpper(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	run, err := h.pipeline.Predict(ctx, symbol)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// GetRuns godoc
// @Summary      List recent prediction runs for a stock
// @Description  Returns stored prediction runs, newest first
// @Tags         ml
// @Produce      json
// @Param        symbol  path   string  true   "Stock symbol (e.g., TSLA, AAPL)"
// @Param        limit   query  int     false  "Number of runs (default 20, max 100)"  default(20)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/runs/{symbol} [get]
func (h *Handler) GetRuns(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-runs")
	defer span.End()

	symbol := strings.ToUpper(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	limit := 20
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	runs, err := h.pipeline.RecentRuns(ctx, symbol, limit)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "runs": runs})
}
