package job

import (
	"context"
	"log"
	"time"

	"mood-swing/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type BarRefresher interface {
	RefreshBars(ctx context.Context, symbol string) error
}

// BarPoller keeps the stored daily history fresh: one symbol per tick,
// round-robin over the tracked set, so a full cycle spreads the provider
// calls out instead of bursting them.
type BarPoller struct {
	tracer       trace.Tracer
	service      BarRefresher
	pollInterval time.Duration
}

func NewBarPoller(tracer trace.Tracer, service BarRefresher, pollIntervalSecs int) *BarPoller {
	if pollIntervalSecs <= 0 {
		pollIntervalSecs = 900
	}
	return &BarPoller{
		tracer:       tracer,
		service:      service,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
	}
}

// Start blocks until ctx is cancelled.
func (p *BarPoller) Start(ctx context.Context) {
	log.Println("Bar poller starting...")

	idx := 0
	p.refreshNext(ctx, &idx)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Bar poller stopped")
			return
		case <-ticker.C:
			p.refreshNext(ctx, &idx)
		}
	}
}

func (p *BarPoller) refreshNext(ctx context.Context, idx *int) {
	ctx, span := p.tracer.Start(ctx, "bar-poller.refresh-next")
	defer span.End()

	symbol := domain.SupportedSymbols[*idx%len(domain.SupportedSymbols)]
	*idx++

	if err := p.service.RefreshBars(ctx, symbol); err != nil {
		log.Printf("bar refresh error for %s: %v", symbol, err)
	}
}
