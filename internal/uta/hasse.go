package uta

import (
	"errors"
	"sort"
)

// Diagram maps an alternative to the sorted ids it directly dominates.
type Diagram map[string][]string

// ErrCycleDetected is returned by TopologicalOrder for a cyclic diagram.
var ErrCycleDetected = errors.New("uta: cycle detected")

// Reduce returns the transitive reduction of rel as a new map. Alternatives
// that dominate each other form one indifference class; the reduction runs on
// the classes and every member inherits the covering edges of its class, so
// members of one class are never linked.
func Reduce(rel Relation) Diagram {
	dom := rel.sets()
	ids := make([]string, 0, len(rel))
	for a := range rel {
		ids = append(ids, a)
	}
	sort.Strings(ids)

	// Class representative is the smallest mutually dominating id.
	rep := make(map[string]string, len(ids))
	for _, a := range ids {
		rep[a] = a
		for _, b := range ids {
			if b < rep[a] && dom[a][b] && dom[b][a] {
				rep[a] = b
			}
		}
	}

	above := make(map[string]map[string]bool)
	for _, a := range ids {
		for b := range dom[a] {
			ra, rb := rep[a], rep[b]
			if ra == rb {
				continue
			}
			if above[ra] == nil {
				above[ra] = make(map[string]bool)
			}
			above[ra][rb] = true
		}
	}

	covers := make(map[string]map[string]bool, len(above))
	for ra, below := range above {
		covers[ra] = make(map[string]bool)
		for rb := range below {
			direct := true
			for rc := range below {
				if rc != rb && above[rc][rb] {
					direct = false
					break
				}
			}
			if direct {
				covers[ra][rb] = true
			}
		}
	}

	out := make(Diagram, len(ids))
	for _, a := range ids {
		edges := []string{}
		for _, b := range ids {
			if covers[rep[a]][rep[b]] && dom[a][b] {
				edges = append(edges, b)
			}
		}
		out[a] = edges
	}
	return out
}

// TopologicalOrder returns the alternatives so that every edge points forward,
// using a three-colour depth-first search.
func (d Diagram) TopologicalOrder() ([]string, error) {
	const (
		white = iota
		gray
		black
	)
	ids := make([]string, 0, len(d))
	for a := range d {
		ids = append(ids, a)
	}
	sort.Strings(ids)

	state := make(map[string]int, len(ids))
	order := make([]string, 0, len(ids))
	var visit func(string) error
	visit = func(a string) error {
		switch state[a] {
		case gray:
			return ErrCycleDetected
		case black:
			return nil
		}
		state[a] = gray
		for _, b := range d[a] {
			if err := visit(b); err != nil {
				return err
			}
		}
		state[a] = black
		order = append(order, a)
		return nil
	}
	for _, a := range ids {
		if err := visit(a); err != nil {
			return nil, err
		}
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// Acyclic reports whether the diagram has no directed cycle.
func (d Diagram) Acyclic() bool {
	_, err := d.TopologicalOrder()
	return err == nil
}
