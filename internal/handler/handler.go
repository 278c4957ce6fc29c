package handler

import (
	"context"
	"errors"
	"net/http"

	"mood-swing/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// Pipeline is the slice of the pipeline service the HTTP layer needs.
type Pipeline interface {
	Bars(ctx context.Context, symbol string) ([]domain.PriceBar, error)
	Mood(ctx context.Context, symbol string) (*domain.MoodSummary, error)
	FusedSeries(ctx context.Context, symbol string) ([]domain.FusedRow, error)
	Train(ctx context.Context, symbol string) (*domain.TrainingMetrics, error)
	Predict(ctx context.Context, symbol string) (*domain.PredictionRun, error)
	RecentRuns(ctx context.Context, symbol string, limit int) ([]domain.PredictionRun, error)
}

type Handler struct {
	tracer   trace.Tracer
	pipeline Pipeline
	apiKey   string
}

func New(tracer trace.Tracer, pipeline Pipeline, apiKey string) *Handler {
	return &Handler{
		tracer:   tracer,
		pipeline: pipeline,
		apiKey:   apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/symbols", h.GetSymbols)
	r.GET("/api/bars/:symbol", h.GetBars)
	r.GET("/api/mood/:symbol", h.GetMood)
	r.GET("/api/fused/:symbol", h.GetFused)
	r.GET("/api/predict/:symbol", h.GetPrediction)
	r.GET("/api/runs/:symbol", h.GetRuns)
	r.POST("/api/train/:symbol", APIKeyAuth(h.apiKey), h.TriggerTraining)
}

// statusFor maps pipeline errors onto HTTP statuses. Bad symbols are the
// caller's fault; thin or missing data is a state the caller can fix by
// waiting or refreshing, not a server fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidItem):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingData), errors.Is(err, domain.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotTrained):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWith(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
