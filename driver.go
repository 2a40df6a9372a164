package gbasis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonathanmweiss/go-gbasis/poly"
	"golang.org/x/sync/errgroup"
)

// phase is the driver state.
type phase int

const (
	initializing phase = iota
	selecting
	reducing
	admitting
	done
	aborted
)

func (p phase) String() string {
	switch p {
	case initializing:
		return "initializing"
	case selecting:
		return "selecting"
	case reducing:
		return "reducing"
	case admitting:
		return "admitting"
	case done:
		return "done"
	case aborted:
		return "aborted"
	}

	return "unknown"
}

// job is one S-polynomial (or, for the signature strategy, one generator) to reduce.
// basis and lms are the snapshot the reduction runs against.
type job[E any] struct {
	key    pairKey
	degree int
	sig    signature
	spoly  *poly.Polynomial[E]
	basis  []*poly.Polynomial[E]
	lms    []divisorMono

	singular bool
	skip     bool
}

// strategy is a completion algorithm the driver runs to saturation.
type strategy[E any] interface {
	name() string
	init(gens []*poly.Polynomial[E]) error
	// next returns the jobs of one step, all pairs of the lowest degree when
	// batch is set. An empty result means the pair set is exhausted.
	next(batch bool) ([]*job[E], error)
	// reduce may run concurrently for the jobs of one step.
	reduce(j *job[E]) (*poly.Polynomial[E], error)
	// admit runs sequentially in job order and returns the new basis element,
	// or nil when the job contributed none.
	admit(j *job[E], nf *poly.Polynomial[E]) (*poly.Polynomial[E], error)
	basis() []*poly.Polynomial[E]
	pending() int
	counters() pairStats
}

// Step describes one Selecting transition, as seen by an observer.
type Step struct {
	Index     int
	Degree    int
	Jobs      int
	BasisSize int
	Pending   int
}

// Stats summarizes a computation.
type Stats struct {
	ID       string
	Strategy string

	Steps          int
	PairsCreated   int
	CoprimePairs   int
	ChainPairs     int
	RewrittenPairs int
	SyzygyPairs    int
	SingularPairs  int
	Reductions     int
	ZeroReductions int
	Admitted       int
	BasisSize      int

	Prime           uint64
	SkippedByTrace  int
	ModularFallback bool

	Elapsed time.Duration
}

type driver[E any] struct {
	cfg   *config
	log   *slog.Logger
	strat strategy[E]
	phase phase
	stats Stats

	// guide, when set, predicts each pair's outcome from a modular run.
	guide   *modularTrace
	skipped []*job[E]
	// record, when set, collects this run's outcomes.
	record *modularTrace

	observe func(Step)
}

func newDriver[E any](cfg *config, s strategy[E], log *slog.Logger) *driver[E] {
	return &driver[E]{
		cfg:   cfg,
		log:   log,
		strat: s,
		stats: Stats{Strategy: s.name()},
	}
}

func (d *driver[E]) run(ctx context.Context, gens []*poly.Polynomial[E]) ([]*poly.Polynomial[E], error) {
	start := time.Now()
	defer func() { d.stats.Elapsed = time.Since(start) }()

	d.phase = initializing
	if err := d.strat.init(gens); err != nil {
		return nil, err
	}

	batch := d.cfg.workers > 1

	for {
		d.phase = selecting
		if err := ctx.Err(); err != nil {
			d.phase = aborted
			d.log.Info("computation aborted", slog.Int("steps", d.stats.Steps), slog.Int("basis", len(d.strat.basis())))

			return nil, fmt.Errorf("%w: %w", ErrAborted, err)
		}

		jobs, err := d.strat.next(batch)
		if err != nil {
			return nil, err
		}

		if len(jobs) == 0 {
			break
		}

		d.stats.Steps++

		d.phase = reducing
		nfs, err := d.reduceAll(ctx, jobs)
		if err != nil {
			return nil, err
		}

		d.phase = admitting
		for i, j := range jobs {
			if j.skip {
				continue
			}

			added, err := d.strat.admit(j, nfs[i])
			if err != nil {
				return nil, err
			}

			if err := d.track(j, added); err != nil {
				return nil, err
			}
		}

		if d.observe != nil {
			d.observe(Step{
				Index:     d.stats.Steps,
				Degree:    jobs[0].degree,
				Jobs:      len(jobs),
				BasisSize: len(d.strat.basis()),
				Pending:   d.strat.pending(),
			})
		}
	}

	d.phase = done

	c := d.strat.counters()
	d.stats.PairsCreated = c.created
	d.stats.CoprimePairs = c.coprime
	d.stats.ChainPairs = c.chain
	d.stats.RewrittenPairs = c.rewrites
	d.stats.SyzygyPairs = c.syzygies
	d.stats.SingularPairs = c.singular

	return d.strat.basis(), nil
}

// reduceAll reduces the jobs of one step, concurrently when more than one
// worker is configured. Jobs the trace predicts to vanish are marked skipped.
func (d *driver[E]) reduceAll(ctx context.Context, jobs []*job[E]) ([]*poly.Polynomial[E], error) {
	out := make([]*poly.Polynomial[E], len(jobs))

	todo := make([]int, 0, len(jobs))
	for i, j := range jobs {
		if d.guide != nil {
			o, ok := d.guide.outcomes[j.key]
			if !ok {
				return nil, fmt.Errorf("%w: pair %v not in the trace", ErrModularMismatch, j.key)
			}

			if o.zero {
				j.skip = true
				d.skipped = append(d.skipped, j)
				d.stats.SkippedByTrace++

				continue
			}
		}

		todo = append(todo, i)
	}

	d.stats.Reductions += len(todo)

	if len(todo) == 1 || d.cfg.workers == 1 {
		for _, i := range todo {
			nf, err := d.strat.reduce(jobs[i])
			if err != nil {
				return nil, err
			}

			out[i] = nf
		}

		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.workers)

	for _, i := range todo {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("%w: %w", ErrAborted, err)
			}

			nf, err := d.strat.reduce(jobs[i])
			if err != nil {
				return err
			}

			out[i] = nf

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// track counts the outcome of an admitted job and checks or records it
// against the modular trace.
func (d *driver[E]) track(j *job[E], added *poly.Polynomial[E]) error {
	got := outcome{zero: added == nil}
	if added != nil {
		got.lm = added.LM()
		d.stats.Admitted++

		d.log.Debug("basis element admitted",
			slog.Int("index", len(d.strat.basis())-1),
			slog.Int("degree", got.lm.Degree()),
			slog.Int("terms", added.Len()),
		)
	} else {
		d.stats.ZeroReductions++
	}

	if d.record != nil {
		d.record.outcomes[j.key] = got
	}

	if d.guide != nil {
		if want := d.guide.outcomes[j.key]; want != got {
			return fmt.Errorf("%w: pair %v", ErrModularMismatch, j.key)
		}
	}

	return nil
}
