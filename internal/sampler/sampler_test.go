package sampler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/utagms/internal/lp"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func twoColumnModel() *lp.Model {
	m := lp.NewModel("square")
	x := m.AddVar("x", 0, 1)
	y := m.AddFree("y")
	m.Add("sum", lp.Expr{}.Plus(1, x).Plus(1, y), lp.EQ, 1)
	m.Add("gap", lp.Expr{}.Plus(2, y).Plus(-0.5, x), lp.GE, -1)
	return m
}

func TestWriteRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, twoColumnModel()))

	want := strings.Join([]string{
		"1 1 = 1",
		"-0.5 2 >= -1",
		"1 0 >= 0",
		"1 0 <= 1",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestParseSamples(t *testing.T) {
	in := "0.1\t0.9\n\n0.2\t0.8\n0.3\n0.4\tabc\n 0.5\t0.5 \n"
	rows, skipped, err := ParseSamples(strings.NewReader(in), 2)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{0.1, 0.9}, {0.2, 0.8}, {0.5, 0.5}}, rows)
	assert.Equal(t, 2, skipped)
}

// fakeJava writes a script standing in for the java binary.
func fakeJava(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a unix shell")
	}
	path := filepath.Join(t.TempDir(), "java")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestPolyrunSample(t *testing.T) {
	java := fakeJava(t, `cat > /dev/null
[ "$4" = "3" ] || exit 2
printf '0.25\t0.75\n0.5\t0.5\nbroken\n0.75\t0.25\n'
`)
	p := NewPolyrun(java, "polyrun.jar", discardLogger())

	rows, err := p.Sample(context.Background(), twoColumnModel(), 3)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.25, 0.75}, {0.5, 0.5}, {0.75, 0.25}}, rows)
}

func TestPolyrunFailure(t *testing.T) {
	java := fakeJava(t, "echo 'Unable to access jarfile' >&2\nexit 1\n")
	p := NewPolyrun(java, "missing.jar", discardLogger())

	_, err := p.Sample(context.Background(), twoColumnModel(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unable to access jarfile")
}

func TestPolyrunEmptyOutput(t *testing.T) {
	java := fakeJava(t, "cat > /dev/null\n")
	p := NewPolyrun(java, "polyrun.jar", discardLogger())

	_, err := p.Sample(context.Background(), twoColumnModel(), 3)
	assert.ErrorIs(t, err, ErrNoSamples)
}
