// Command gbasis computes reduced Groebner bases over the rationals.
//
// Generators are read from the arguments or, when none are given, from
// standard input, one per line or separated by ';':
//
//	gbasis -vars x,y -order lex "x^2 - y" "x*y - 1"
//	echo "x^2 - y; x*y - 1" | gbasis -vars x,y -rur
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/jonathanmweiss/go-gbasis"
	"github.com/jonathanmweiss/go-gbasis/field"
	"github.com/jonathanmweiss/go-gbasis/poly"
)

type options struct {
	vars    string
	order   string
	f5      bool
	modular bool
	rur     bool
	reduce  string
	member  string
	workers int
	timeout time.Duration
	chart   string
	verbose bool
}

var errUsage = errors.New("usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "gbasis:", err)
		}

		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	o := &options{}

	fs := flag.NewFlagSet("gbasis", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.vars, "vars", "", "comma separated variable names, highest first")
	fs.StringVar(&o.order, "order", "grevlex", "monomial order: grevlex|glex|lex|elim:k")
	fs.BoolVar(&o.f5, "f5", false, "use the signature-based strategy")
	fs.BoolVar(&o.modular, "modular", false, "guide the computation with a run modulo a prime")
	fs.BoolVar(&o.rur, "rur", false, "print the rational univariate representation")
	fs.StringVar(&o.reduce, "reduce", "", "';' separated polynomials to reduce modulo the ideal")
	fs.StringVar(&o.member, "member", "", "';' separated polynomials to test for membership")
	fs.IntVar(&o.workers, "workers", 1, "parallel reductions per degree")
	fs.DurationVar(&o.timeout, "timeout", 0, "abort after this long (0 disables)")
	fs.StringVar(&o.chart, "chart", "", "write an HTML chart of the run to this file")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if o.vars == "" {
		return nil, nil, fmt.Errorf("%w: -vars is required", errUsage)
	}

	if o.f5 && (o.modular || o.rur) {
		return nil, nil, fmt.Errorf("%w: -f5 cannot be combined with -modular or -rur", errUsage)
	}

	return o, fs.Args(), nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	o, rest, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	return execute(ctx, o, rest, stdin, stdout, stderr, &recorder{})
}

// execute runs one computation; rec observes the main completion only.
func execute(ctx context.Context, o *options, rest []string, stdin io.Reader, stdout, stderr io.Writer, rec *recorder) error {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	order, err := poly.ParseOrder(o.order)
	if err != nil {
		return err
	}

	r, err := poly.NewRing[*big.Rat](field.Q, order, strings.Split(o.vars, ",")...)
	if err != nil {
		return err
	}

	texts := rest
	if len(texts) == 0 {
		if texts, err = readGenerators(stdin); err != nil {
			return err
		}
	}

	gens, err := poly.ParseAll(r, texts...)
	if err != nil {
		return err
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	opts := []gbasis.Option{gbasis.WithLogger(logger), gbasis.WithWorkers(o.workers), gbasis.WithObserver(rec.observe)}

	var res *gbasis.Result[*big.Rat]
	if o.f5 {
		res, err = gbasis.ComputeBasisF5(ctx, gens, order, opts...)
	} else {
		res, err = gbasis.ComputeBasisInternal(ctx, gens, order, o.modular, o.rur, opts...)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "basis:")
	for _, g := range res.Basis {
		fmt.Fprintln(stdout, "  "+g.String())
	}

	if res.RUR != nil {
		fmt.Fprintln(stdout, "rur:")
		fmt.Fprintln(stdout, res.RUR.String())
	}

	if err := queries(ctx, stdout, r, res.Basis, order, o); err != nil {
		return err
	}

	logger.Info("done", slog.String("id", res.Stats.ID), slog.String("strategy", res.Stats.Strategy),
		slog.Int("steps", res.Stats.Steps), slog.Int("reductions", res.Stats.Reductions),
		slog.Int("syzygy_pairs", res.Stats.SyzygyPairs), slog.Int("rewritten_pairs", res.Stats.RewrittenPairs),
		slog.Duration("elapsed", res.Stats.Elapsed))

	if o.chart == "" {
		return nil
	}

	f, err := os.Create(o.chart)
	if err != nil {
		return err
	}
	defer f.Close()

	return rec.render(f, strings.Join(texts, ", "))
}

// queries answers -reduce and -member from the basis already computed, so no
// second completion runs.
func queries(ctx context.Context, w io.Writer, r *poly.Ring[*big.Rat], basis []*poly.Polynomial[*big.Rat],
	order poly.Order, o *options) error {
	if o.reduce != "" {
		ps, err := poly.ParseAll(r, splitList(o.reduce)...)
		if err != nil {
			return err
		}

		nfs, err := gbasis.ReduceAgainst(ctx, ps, basis, order)
		if err != nil {
			return err
		}

		fmt.Fprintln(w, "normal forms:")
		for i, nf := range nfs {
			fmt.Fprintf(w, "  %s -> %s\n", ps[i], nf)
		}
	}

	if o.member != "" {
		ps, err := poly.ParseAll(r, splitList(o.member)...)
		if err != nil {
			return err
		}

		nfs, err := gbasis.ReduceAgainst(ctx, ps, basis, order)
		if err != nil {
			return err
		}

		fmt.Fprintln(w, "membership:")
		for i, nf := range nfs {
			fmt.Fprintf(w, "  %s: %t\n", ps[i], nf.IsZero())
		}
	}

	return nil
}

func readGenerators(in io.Reader) ([]string, error) {
	var out []string

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		out = append(out, splitList(sc.Text())...)
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no generators given", errUsage)
	}

	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
