package problem

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid problem")

const weightSumTolerance = 0.001

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks the structural invariants of the input. It never corrects
// the problem; the first violation is returned.
func (p *Problem) Validate() error {
	if len(p.Criteria) == 0 {
		return invalidf("no criteria")
	}
	if len(p.Alternatives) == 0 {
		return invalidf("no alternatives")
	}

	criteria := make(map[string]bool, len(p.Criteria))
	for _, c := range p.Criteria {
		if c.ID == "" {
			return invalidf("criterion with empty id")
		}
		if criteria[c.ID] {
			return invalidf("duplicate criterion %q", c.ID)
		}
		criteria[c.ID] = true
		if c.Direction != Gain && c.Direction != Cost {
			return invalidf("criterion %q: direction must be %q or %q, got %q", c.ID, Gain, Cost, c.Direction)
		}
		if c.Segments < 0 || c.Segments == 1 {
			return invalidf("criterion %q: segments must be 0 or at least 2, got %d", c.ID, c.Segments)
		}
	}
	if err := p.validateWeights(); err != nil {
		return err
	}

	alternatives := make(map[string]bool, len(p.Alternatives))
	for i, a := range p.Alternatives {
		if a.ID == "" {
			return invalidf("alternative %d has empty id", i)
		}
		if alternatives[a.ID] {
			return invalidf("duplicate alternative %q", a.ID)
		}
		alternatives[a.ID] = true

		if len(a.Performances) != len(criteria) {
			return invalidf("alternative %q: has %d performances, want %d", a.ID, len(a.Performances), len(criteria))
		}
		for k, v := range a.Performances {
			if !criteria[k] {
				return invalidf("alternative %q: unknown criterion %q", a.ID, k)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return invalidf("alternative %q: performance on %q is not finite", a.ID, k)
			}
		}
	}

	for _, pr := range p.Preferences {
		if err := checkPair(alternatives, "preference", pr.Superior, pr.Inferior); err != nil {
			return err
		}
	}
	for _, in := range p.Indifferences {
		if err := checkPair(alternatives, "indifference", in.First, in.Second); err != nil {
			return err
		}
	}

	n := len(p.Alternatives)
	seen := make(map[string]bool, len(p.Positions))
	for _, pos := range p.Positions {
		if !alternatives[pos.Alternative] {
			return invalidf("position: unknown alternative %q", pos.Alternative)
		}
		if seen[pos.Alternative] {
			return invalidf("position: alternative %q listed twice", pos.Alternative)
		}
		seen[pos.Alternative] = true
		if pos.Best < 1 || pos.Worst < 1 {
			return invalidf("position %q: ranks start at 1, got best=%d worst=%d", pos.Alternative, pos.Best, pos.Worst)
		}
		if pos.Worst < pos.Best {
			return invalidf("position %q: worst %d is better than best %d", pos.Alternative, pos.Worst, pos.Best)
		}
		if pos.Worst > n {
			return invalidf("position %q: worst %d exceeds %d alternatives", pos.Alternative, pos.Worst, n)
		}
	}
	return nil
}

// validateWeights accepts either no explicit weights, all weights equal to 1,
// or weights in (0,1] summing to 1.
func (p *Problem) validateWeights() error {
	explicit := 0
	for _, c := range p.Criteria {
		if c.Weight == nil {
			continue
		}
		explicit++
		if w := *c.Weight; math.IsNaN(w) || w <= 0 || w > 1 {
			return invalidf("criterion %q: weight %v outside (0,1]", c.ID, w)
		}
	}
	if explicit == 0 {
		return nil
	}

	unweighted := true
	var sum float64
	for _, w := range p.Weights() {
		sum += w
		if w != 1 {
			unweighted = false
		}
	}
	if unweighted {
		return nil
	}
	if explicit != len(p.Criteria) {
		return invalidf("weights must be set on every criterion or on none")
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return invalidf("weights sum to %.4f, expected 1.0", sum)
	}
	return nil
}

func checkPair(known map[string]bool, kind, a, b string) error {
	if !known[a] {
		return invalidf("%s: unknown alternative %q", kind, a)
	}
	if !known[b] {
		return invalidf("%s: unknown alternative %q", kind, b)
	}
	if a == b {
		return invalidf("%s: %q compared with itself", kind, a)
	}
	return nil
}
