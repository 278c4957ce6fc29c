package job

import (
	"context"
	"log"
	"time"

	"mood-swing/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type Trainer interface {
	Train(ctx context.Context, symbol string) (*domain.TrainingMetrics, error)
}

// TrainingJob refits every tracked symbol's model once a day, after the
// previous session's close has settled into the daily bars.
type TrainingJob struct {
	tracer    trace.Tracer
	service   Trainer
	trainHour int
}

func NewTrainingJob(tracer trace.Tracer, service Trainer, trainHourUTC int) *TrainingJob {
	if trainHourUTC < 0 || trainHourUTC > 23 {
		trainHourUTC = 0
	}
	return &TrainingJob{tracer: tracer, service: service, trainHour: trainHourUTC}
}

func (j *TrainingJob) Start(ctx context.Context) {
	if j.service == nil {
		log.Println("Training job disabled: no service")
		<-ctx.Done()
		return
	}
	for {
		next := nextRunUTC(time.Now().UTC(), j.trainHour)
		wait := time.Until(next)
		if wait < time.Second {
			wait = time.Second
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			j.runOnce(ctx)
		}
	}
}

func (j *TrainingJob) runOnce(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "training-job.run-once")
	defer span.End()

	for _, symbol := range domain.SupportedSymbols {
		metrics, err := j.service.Train(ctx, symbol)
		if err != nil {
			log.Printf("training error for %s: %v", symbol, err)
			continue
		}
		log.Printf("training result symbol=%s best=%.4f cv=%.4f±%.4f rows=%d",
			symbol, metrics.BestAccuracy, metrics.CVMean, metrics.CVStd, metrics.UsableRows)
	}
}

func nextRunUTC(now time.Time, hour int) time.Time {
	run := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !run.After(now) {
		run = run.Add(24 * time.Hour)
	}
	return run
}
