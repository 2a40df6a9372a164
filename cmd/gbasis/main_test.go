package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPrintsBasis(t *testing.T) {
	a := assert.New(t)

	var out, errs bytes.Buffer
	err := run(context.Background(), []string{"-vars", "x,y", "-order", "lex", "x^2 - y", "x*y - 1"}, nil, &out, &errs)
	require.NoError(t, err)

	a.Equal("basis:\n  y^3 - 1\n  x - y^2\n", out.String())
}

func TestRunFromStdin(t *testing.T) {
	a := assert.New(t)

	var out, errs bytes.Buffer
	in := strings.NewReader("x^2 - y; x*y - 1\n\n")

	err := run(context.Background(), []string{"-vars", "x,y", "-modular", "-rur",
		"-reduce", "x^3 + y^3 + x", "-member", "y^2 - x; x + y"}, in, &out, &errs)
	require.NoError(t, err)

	s := out.String()
	a.Contains(s, "  y^2 - x\n")
	a.Contains(s, "rur:\n")
	a.Contains(s, "f(T) = ")
	a.Contains(s, "x^3 + y^3 + x -> x + 2")
	a.Contains(s, "y^2 - x: true")
	a.Contains(s, "x + y: false")
}

func TestRunChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.html")

	var out, errs bytes.Buffer
	err := run(context.Background(), []string{"-vars", "x,y,z", "-chart", path,
		"x + y + z", "x*y + y*z + z*x", "x*y*z - 1"}, nil, &out, &errs)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "basis size")
}

func TestChartRecordsOnlyTheBasisRun(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()
	cyclic3 := []string{"x + y + z", "x*y + y*z + z*x", "x*y*z - 1"}

	steps := func(extra ...string) []int {
		o, rest, err := parseFlags(append(append([]string{"-vars", "x,y,z"}, extra...), cyclic3...), io.Discard)
		require.NoError(t, err)

		rec := &recorder{}
		var out bytes.Buffer
		require.NoError(t, execute(ctx, o, rest, nil, &out, io.Discard, rec))

		idx := make([]int, len(rec.steps))
		for i, s := range rec.steps {
			idx[i] = s.Index
		}

		return idx
	}

	alone := steps()
	a.NotEmpty(alone)
	for i, v := range alone {
		a.Equal(i+1, v)
	}

	a.Equal(alone, steps("-reduce", "x; y", "-member", "x"))
}

func TestRunReducesAgainstComputedBasis(t *testing.T) {
	var out, errs bytes.Buffer
	err := run(context.Background(), []string{"-vars", "x,y", "-f5", "-reduce", "y^2", "-member", "y^2 - x",
		"x^2 - y", "x*y - 1"}, nil, &out, &errs)
	require.NoError(t, err)

	// y^2 is irreducible by the generators but not by the completed basis
	assert.Contains(t, out.String(), "y^2 -> x\n")
	assert.Contains(t, out.String(), "y^2 - x: true")
}

func TestRunUsageErrors(t *testing.T) {
	var out, errs bytes.Buffer
	ctx := context.Background()

	assert.ErrorIs(t, run(ctx, []string{"x - 1"}, nil, &out, &errs), errUsage)
	assert.ErrorIs(t, run(ctx, []string{"-vars", "x", "-f5", "-rur", "x - 1"}, nil, &out, &errs), errUsage)
	assert.ErrorIs(t, run(ctx, []string{"-vars", "x"}, strings.NewReader(" ; \n"), &out, &errs), errUsage)
	assert.Error(t, run(ctx, []string{"-vars", "x", "-order", "nope", "x - 1"}, nil, &out, &errs))
	assert.Error(t, run(ctx, []string{"-vars", "x", "x +* 1"}, nil, &out, &errs))
}
