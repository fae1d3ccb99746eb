package problem

// Direction is the preference direction of a criterion.
type Direction string

const (
	Gain Direction = "gain"
	Cost Direction = "cost"
)

// Criterion describes one evaluation dimension. Segments == 0 selects exact
// mode (one breakpoint per observed value); Segments >= 2 selects that many
// evenly spaced characteristic points.
type Criterion struct {
	ID        string    `json:"id" yaml:"id"`
	Direction Direction `json:"direction" yaml:"direction"`
	Segments  int       `json:"segments,omitempty" yaml:"segments,omitempty"`
	Weight    *float64  `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Exact reports whether the criterion uses one breakpoint per observed value.
func (c Criterion) Exact() bool { return c.Segments == 0 }

type Alternative struct {
	ID           string             `json:"id" yaml:"id"`
	Performances map[string]float64 `json:"performances" yaml:"performances"`
}

type Preference struct {
	Superior string `json:"superior" yaml:"superior"`
	Inferior string `json:"inferior" yaml:"inferior"`
}

type Indifference struct {
	First  string `json:"first" yaml:"first"`
	Second string `json:"second" yaml:"second"`
}

// Position bounds the rank an alternative may take. Ranks are 1-based with 1
// the top of the ranking, so Best <= Worst.
type Position struct {
	Alternative string `json:"alternative" yaml:"alternative"`
	Best        int    `json:"best" yaml:"best"`
	Worst       int    `json:"worst" yaml:"worst"`
}

// Problem is the full input of one analysis.
type Problem struct {
	Name          string         `json:"name,omitempty" yaml:"name,omitempty"`
	Criteria      []Criterion    `json:"criteria" yaml:"criteria"`
	Alternatives  []Alternative  `json:"alternatives" yaml:"alternatives"`
	Preferences   []Preference   `json:"preferences,omitempty" yaml:"preferences,omitempty"`
	Indifferences []Indifference `json:"indifferences,omitempty" yaml:"indifferences,omitempty"`
	Positions     []Position     `json:"positions,omitempty" yaml:"positions,omitempty"`
}

// Weights returns one weight per criterion, in criteria order. Criteria
// without an explicit weight count as 1.
func (p *Problem) Weights() []float64 {
	w := make([]float64, len(p.Criteria))
	for i, c := range p.Criteria {
		w[i] = 1
		if c.Weight != nil {
			w[i] = *c.Weight
		}
	}
	return w
}

// Index maps alternative ids to their position in Alternatives.
func (p *Problem) Index() map[string]int {
	idx := make(map[string]int, len(p.Alternatives))
	for i, a := range p.Alternatives {
		idx[a.ID] = i
	}
	return idx
}

// AlternativeIDs returns the ids in input order.
func (p *Problem) AlternativeIDs() []string {
	ids := make([]string, len(p.Alternatives))
	for i, a := range p.Alternatives {
		ids[i] = a.ID
	}
	return ids
}

// HasPositions reports whether the problem needs binary variables.
func (p *Problem) HasPositions() bool { return len(p.Positions) > 0 }
