package payment

import (
	"context"
	"log/slog"
	"time"
)

// Source produces the next simulated payment.
type Source func(now time.Time) Payment

// Publisher forwards payments to an external sink (e.g. a Kafka topic).
type Publisher interface {
	Publish(ctx context.Context, p Payment) error
}

// Recorder is notified of every simulated payment. Used for metrics.
type Recorder interface {
	PaymentSimulated(p Payment)
}

// Simulator appends a fresh payment to a Stream on every tick.
type Simulator struct {
	stream    *Stream
	source    Source
	interval  time.Duration
	publisher Publisher
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// SimulatorOption customizes a Simulator.
type SimulatorOption func(*Simulator)

// WithPublisher forwards every simulated payment to pub.
func WithPublisher(pub Publisher) SimulatorOption {
	return func(s *Simulator) { s.publisher = pub }
}

// WithRecorder reports every simulated payment to rec.
func WithRecorder(rec Recorder) SimulatorOption {
	return func(s *Simulator) { s.recorder = rec }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) SimulatorOption {
	return func(s *Simulator) { s.now = now }
}

// NewSimulator creates a Simulator. A non-positive interval defaults to one
// second.
func NewSimulator(stream *Stream, source Source, interval time.Duration, logger *slog.Logger, opts ...SimulatorOption) *Simulator {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Simulator{
		stream:   stream,
		source:   source,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tick produces, records and publishes one payment. Publishing errors are
// logged and do not stop the stream.
func (s *Simulator) Tick(ctx context.Context) Payment {
	p := s.source(s.now())
	s.stream.Append(p)

	if s.recorder != nil {
		s.recorder.PaymentSimulated(p)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, p); err != nil {
			s.logger.WarnContext(ctx, "failed to publish simulated payment",
				slog.String("payment_id", p.ID),
				slog.Any("error", err),
			)
		}
	}
	return p
}

// Run ticks until ctx is cancelled. The first payment is produced
// immediately so the dashboard never starts empty.
func (s *Simulator) Run(ctx context.Context) {
	s.logger.Info("payment simulator starting", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("payment simulator stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}
