package sampler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/utagms/internal/lp"
)

var ErrNoSamples = errors.New("sampler: no samples returned")

// Polyrun runs the Polyrun hit-and-run sampler jar. The model is written to
// its stdin and samples are read from its stdout.
type Polyrun struct {
	Java   string
	Jar    string
	logger *slog.Logger
}

func NewPolyrun(java, jar string, logger *slog.Logger) *Polyrun {
	if java == "" {
		java = "java"
	}
	return &Polyrun{Java: java, Jar: jar, logger: logger}
}

func (p *Polyrun) Sample(ctx context.Context, m *lp.Model, n int) ([][]float64, error) {
	var in bytes.Buffer
	if err := WriteRows(&in, m); err != nil {
		return nil, fmt.Errorf("sampler: write model: %w", err)
	}

	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.Java, "-jar", p.Jar, "-n", strconv.Itoa(n))
	cmd.Stdin = &in
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("sampler: run %s: %w: %s", p.Jar, err, strings.TrimSpace(stderr.String()))
	}

	rows, skipped, err := ParseSamples(&out, m.NumVars())
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		p.logger.Warn("sampler produced malformed lines", "skipped", skipped)
	}
	if len(rows) == 0 {
		return nil, ErrNoSamples
	}
	p.logger.Debug("sampled polytope", "model", m.Name, "samples", len(rows), "columns", m.NumVars())
	return rows, nil
}
