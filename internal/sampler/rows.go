// Package sampler hands a model's polytope to an external uniform sampler.
package sampler

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/utagms/internal/lp"
)

// WriteRows serializes the constraints of m, one per line: a coefficient for
// every column in column order, the operator and the right-hand side. Finite
// variable bounds are written as rows too.
func WriteRows(w io.Writer, m *lp.Model) error {
	bw := bufio.NewWriter(w)
	n := m.NumVars()
	coefs := make([]float64, n)

	line := func(terms lp.Expr, op lp.Op, rhs float64) {
		for i := range coefs {
			coefs[i] = 0
		}
		for _, t := range terms {
			coefs[t.Var] = t.Coef
		}
		for _, c := range coefs {
			bw.WriteString(strconv.FormatFloat(c, 'g', -1, 64))
			bw.WriteByte(' ')
		}
		fmt.Fprintf(bw, "%s %s\n", op, strconv.FormatFloat(rhs, 'g', -1, 64))
	}

	for _, c := range m.Constraints() {
		line(c.Terms, c.Op, c.RHS)
	}
	for i, v := range m.Vars() {
		col := lp.Expr{{Var: lp.Var(i), Coef: 1}}
		if !math.IsInf(v.Lower, -1) {
			line(col, lp.GE, v.Lower)
		}
		if !math.IsInf(v.Upper, 1) {
			line(col, lp.LE, v.Upper)
		}
	}
	return bw.Flush()
}

// ParseSamples reads tab-separated samples of width values each. Lines with
// a different width or a non-numeric field are skipped and counted.
func ParseSamples(r io.Reader, width int) ([][]float64, int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var rows [][]float64
	skipped := 0
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != width {
			skipped++
			continue
		}
		row := make([]float64, width)
		ok := true
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				ok = false
				break
			}
			row[i] = v
		}
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, skipped, fmt.Errorf("read samples: %w", err)
	}
	return rows, skipped, nil
}
