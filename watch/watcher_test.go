package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhamidi/rdparse/grammars"
)

func TestParse(t *testing.T) {
	g, err := grammars.Lookup("arith")
	require.NoError(t, err)
	w, err := New(g)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(t.TempDir(), "expr.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 + 2"), 0o644))

	res := w.Parse(path)
	require.NoError(t, res.Err)
	require.Equal(t, "BinaryOp", res.Node.Type)

	res = w.Parse(filepath.Join(t.TempDir(), "missing.txt"))
	require.True(t, res.Removed)
}

func TestRunReportsChanges(t *testing.T) {
	g, err := grammars.Lookup("arith")
	require.NoError(t, err)
	w, err := New(g)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(t.TempDir(), "expr.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 + 2"), 0o644))
	require.NoError(t, w.Add(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results := make(chan Result, 16)
	go w.Run(ctx, func(r Result) { results <- r })

	first := receive(t, results)
	require.NoError(t, first.Err)

	require.NoError(t, os.WriteFile(path, []byte("1 +"), 0o644))
	for {
		r := receive(t, results)
		if r.Err != nil {
			require.Contains(t, r.Err.Error(), "expected")
			return
		}
	}
}

func receive(t *testing.T, results <-chan Result) Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("no parse result")
		return Result{}
	}
}
