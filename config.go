package gbasis

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonathanmweiss/go-gbasis/field"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type config struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	workers  int
	prime    uint64
	seed     *[32]byte
	observer func(Step)
}

// Option configures a computation.
type Option func(*config) error

var errBadWorkers = errors.New("workers must be at least 1")

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer. The default comes from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *config) error {
		if t != nil {
			c.tracer = t
		}
		return nil
	}
}

// WithWorkers reduces the S-polynomials of one degree batch on up to n goroutines.
// With n == 1 (the default) pairs are handled one at a time.
//
// Only the classic strategy batches; the signature strategy is sequential.
func WithWorkers(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return errBadWorkers
		}
		c.workers = n
		return nil
	}
}

// WithPrime forces the prime used by the modular check instead of a pseudo-random one.
func WithPrime(p uint64) Option {
	return func(c *config) error {
		if _, err := field.NewPrimeField(p); err != nil {
			return fmt.Errorf("modular prime %d: %w", p, err)
		}
		c.prime = p
		return nil
	}
}

// WithSeed fixes the seed of the modular prime choice. By default the seed is
// a hash of the generators.
func WithSeed(seed uint64) Option {
	return func(c *config) error {
		var s [32]byte
		binary.LittleEndian.PutUint64(s[:], seed)
		c.seed = &s

		return nil
	}
}

// WithObserver registers a callback invoked after every Selecting step of the
// exact computation. It runs on the driver goroutine.
func WithObserver(fn func(Step)) Option {
	return func(c *config) error {
		c.observer = fn
		return nil
	}
}

func newConfig(opts ...Option) (*config, error) {
	c := &config{
		workers: 1,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With(slog.String("component", "gbasis"))

	if c.tracer == nil {
		c.tracer = otel.Tracer("github.com/jonathanmweiss/go-gbasis")
	}

	return c, nil
}
