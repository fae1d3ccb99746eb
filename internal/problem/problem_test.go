package problem

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func weight(v float64) *float64 { return &v }

func validProblem() *Problem {
	return &Problem{
		Criteria: []Criterion{
			{ID: "price", Direction: Cost},
			{ID: "quality", Direction: Gain, Segments: 3},
		},
		Alternatives: []Alternative{
			{ID: "a", Performances: map[string]float64{"price": 10, "quality": 3}},
			{ID: "b", Performances: map[string]float64{"price": 20, "quality": 5}},
			{ID: "c", Performances: map[string]float64{"price": 15, "quality": 4}},
		},
		Preferences:   []Preference{{Superior: "a", Inferior: "b"}},
		Indifferences: []Indifference{{First: "b", Second: "c"}},
		Positions:     []Position{{Alternative: "a", Best: 1, Worst: 2}},
	}
}

func TestValidateAcceptsValidProblem(t *testing.T) {
	if err := validProblem().Validate(); err != nil {
		t.Fatalf("valid problem rejected: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Problem)
		want   string
	}{
		{"no criteria", func(p *Problem) { p.Criteria = nil }, "no criteria"},
		{"no alternatives", func(p *Problem) { p.Alternatives = nil }, "no alternatives"},
		{"duplicate criterion", func(p *Problem) { p.Criteria[1].ID = "price" }, "duplicate criterion"},
		{"bad direction", func(p *Problem) { p.Criteria[0].Direction = "up" }, "direction"},
		{"one segment", func(p *Problem) { p.Criteria[1].Segments = 1 }, "segments"},
		{"negative segments", func(p *Problem) { p.Criteria[1].Segments = -2 }, "segments"},
		{"duplicate alternative", func(p *Problem) { p.Alternatives[1].ID = "a" }, "duplicate alternative"},
		{"missing key", func(p *Problem) { delete(p.Alternatives[2].Performances, "price") }, "performances"},
		{"unknown key", func(p *Problem) {
			delete(p.Alternatives[2].Performances, "price")
			p.Alternatives[2].Performances["speed"] = 1
		}, "unknown criterion"},
		{"self preference", func(p *Problem) { p.Preferences[0].Inferior = "a" }, "itself"},
		{"self indifference", func(p *Problem) { p.Indifferences[0].Second = "b" }, "itself"},
		{"unknown preference", func(p *Problem) { p.Preferences[0].Superior = "z" }, "unknown alternative"},
		{"position unknown", func(p *Problem) { p.Positions[0].Alternative = "z" }, "unknown alternative"},
		{"position zero", func(p *Problem) { p.Positions[0].Best = 0 }, "ranks start at 1"},
		{"position inverted", func(p *Problem) { p.Positions[0] = Position{Alternative: "a", Best: 3, Worst: 2} }, "better than best"},
		{"position out of range", func(p *Problem) { p.Positions[0].Worst = 4 }, "exceeds"},
		{"weight out of range", func(p *Problem) {
			p.Criteria[0].Weight = weight(1.5)
			p.Criteria[1].Weight = weight(-0.5)
		}, "outside"},
		{"weights not summing", func(p *Problem) {
			p.Criteria[0].Weight = weight(0.3)
			p.Criteria[1].Weight = weight(0.3)
		}, "sum to"},
		{"partial weights", func(p *Problem) { p.Criteria[0].Weight = weight(0.3) }, "every criterion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProblem()
			tt.mutate(p)
			err := p.Validate()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error should wrap ErrInvalid: %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights []*float64
		want    []float64
	}{
		{name: "fixed", weights: []*float64{weight(0.6), weight(0.4)}, want: []float64{0.6, 0.4}},
		{name: "all ones means unweighted", weights: []*float64{weight(1), weight(1)}, want: []float64{1, 1}},
		{name: "absent", weights: []*float64{nil, nil}, want: []float64{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProblem()
			for i, w := range tt.weights {
				p.Criteria[i].Weight = w
			}
			if err := p.Validate(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := p.Weights(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("weights %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	p, err := Load(filepath.Join("testdata", "twelve.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if p.Name != "twelve alternatives" {
		t.Errorf("name %q", p.Name)
	}
	if len(p.Alternatives) != 12 || len(p.Criteria) != 3 {
		t.Errorf("got %d alternatives and %d criteria, want 12 and 3", len(p.Alternatives), len(p.Criteria))
	}
	if got, want := p.Preferences[0], (Preference{Superior: "G", Inferior: "F"}); got != want {
		t.Errorf("first preference %+v, want %+v", got, want)
	}
	if got, want := p.Indifferences[0], (Indifference{First: "D", Second: "G"}); got != want {
		t.Errorf("first indifference %+v, want %+v", got, want)
	}
	if w := p.Weights()[2]; w != 0.35 {
		t.Errorf("g3 weight %g, want 0.35", w)
	}
	if i := p.Index()["G"]; i != 6 {
		t.Errorf("G at %d, want 6", i)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	body := `{"criteria":[{"id":"x","direction":"gain"}],
	"alternatives":[{"id":"a","performances":{"x":1}},{"id":"b","performances":{"x":2}}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.AlternativeIDs(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("ids %v", got)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		invalid bool
		want    string
	}{
		{
			name:    "unknown criterion key",
			file:    "p.yaml",
			body:    "criteria: [{id: x, direction: gain}]\nalternatives: [{id: a, performances: {y: 1}}]\n",
			invalid: true,
		},
		{name: "unsupported extension", file: "p.csv", body: "a,b", want: "unsupported extension"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.invalid && !errors.Is(err, ErrInvalid) {
				t.Errorf("error should wrap ErrInvalid: %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"criteria":[],"alternatives":[],"weights":[1]}`))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
	if !strings.Contains(err.Error(), "parse problem") {
		t.Errorf("error %q", err)
	}
}
