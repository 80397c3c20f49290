package simulation

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/couchcryptid/neo-impact-service/internal/observability"
)

// publishTimeout bounds a single event write so a slow broker cannot stall responses.
const publishTimeout = 5 * time.Second

// Publisher writes simulation events to an audit stream.
type Publisher interface {
	Publish(ctx context.Context, event domain.SimulationEvent) error
}

// Service runs the feed fetcher and the impact and deflection calculators
// behind one API, recording metrics and publishing an event per successful
// calculation.
type Service struct {
	feed      domain.AsteroidFeed
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Service. Pass a nil publisher to disable event publishing.
func New(feed domain.AsteroidFeed, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		feed:      feed,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// SetReady flips the readiness reported by CheckReadiness.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// CheckReadiness returns nil once the service is accepting traffic and
// until shutdown begins.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("service is not accepting traffic")
	}
	return nil
}

// Asteroids returns the near-Earth objects in the current feed window.
func (s *Service) Asteroids(ctx context.Context) ([]domain.AsteroidRecord, error) {
	records, err := s.feed.FetchAsteroids(ctx)
	if err != nil {
		s.logger.Error("neo feed fetch failed", "error", err)
		return nil, err
	}
	return records, nil
}

// Impact estimates the effects of an impact and publishes the result.
func (s *Service) Impact(ctx context.Context, in domain.ImpactInput) (domain.ImpactResult, error) {
	result, err := domain.CalculateImpact(in.DiameterM, in.VelocityKmS)
	if err != nil {
		s.metrics.Calculations.WithLabelValues(domain.KindImpact, "invalid").Inc()
		return domain.ImpactResult{}, err
	}
	s.metrics.Calculations.WithLabelValues(domain.KindImpact, "success").Inc()

	s.publish(ctx, domain.NewImpactEvent(in, result))
	return result, nil
}

// Deflect estimates the miss distance after a kinetic-impactor push and publishes the result.
func (s *Service) Deflect(ctx context.Context, in domain.DeflectionInput) (domain.DeflectionResult, error) {
	result, err := domain.CalculateDeflection(in.MissDistanceKm, in.VelocityKmS, in.DeltaVMS)
	if err != nil {
		s.metrics.Calculations.WithLabelValues(domain.KindDeflection, "invalid").Inc()
		return domain.DeflectionResult{}, err
	}
	s.metrics.Calculations.WithLabelValues(domain.KindDeflection, "success").Inc()

	s.publish(ctx, domain.NewDeflectionEvent(in, result))
	return result, nil
}

// publish is best-effort: failures are logged and counted, never returned.
func (s *Service) publish(ctx context.Context, event domain.SimulationEvent) {
	if s.publisher == nil {
		return
	}

	// Detach from the request so a client disconnect does not drop the event.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish simulation event failed",
			"error", err,
			"event_id", event.ID,
			"kind", event.Kind,
		)
		s.metrics.EventsPublished.WithLabelValues("error").Inc()
		return
	}
	s.metrics.EventsPublished.WithLabelValues("success").Inc()
}
