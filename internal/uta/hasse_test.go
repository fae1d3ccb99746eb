package uta

import (
	"errors"
	"reflect"
	"testing"
)

func TestReduce(t *testing.T) {
	tests := []struct {
		name string
		rel  Relation
		want Diagram
	}{
		{
			name: "chain",
			rel: Relation{
				"a": {"b", "c", "d"},
				"b": {"c", "d"},
				"c": {"d"},
				"d": {},
			},
			want: Diagram{"a": {"b"}, "b": {"c"}, "c": {"d"}, "d": {}},
		},
		{
			name: "diamond",
			rel: Relation{
				"top":    {"left", "right", "bottom"},
				"left":   {"bottom"},
				"right":  {"bottom"},
				"bottom": {},
			},
			want: Diagram{
				"top":    {"left", "right"},
				"left":   {"bottom"},
				"right":  {"bottom"},
				"bottom": {},
			},
		},
		{
			name: "mutual dominance collapses",
			rel: Relation{
				"d": {"e", "f", "g"},
				"g": {"d", "e", "f"},
				"f": {"e"},
				"e": {},
			},
			want: Diagram{"d": {"f"}, "g": {"f"}, "f": {"e"}, "e": {}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(tt.rel)
			for id, want := range tt.want {
				if !reflect.DeepEqual(got[id], want) {
					t.Errorf("%s covers %v, want %v", id, got[id], want)
				}
			}
			if !got.Acyclic() {
				t.Errorf("diagram %v has a cycle", got)
			}
		})
	}
}

func TestReduceLeavesInputUntouched(t *testing.T) {
	rel := Relation{"a": {"b", "c"}, "b": {"c"}, "c": {}}
	Reduce(rel)
	if want := []string{"b", "c"}; !reflect.DeepEqual(rel["a"], want) {
		t.Errorf("input mutated: got %v, want %v", rel["a"], want)
	}
}

func TestTopologicalOrder(t *testing.T) {
	d := Diagram{"a": {"b"}, "b": {"c"}, "c": {}, "x": {"c"}}
	order, err := d.TopologicalOrder()
	if err != nil {
		t.Fatal(err)
	}

	pos := map[string]int{}
	for i, id := range order {
		pos[id] = i
	}
	for a, bs := range d {
		for _, b := range bs {
			if pos[a] >= pos[b] {
				t.Errorf("%s should come before %s in %v", a, b, order)
			}
		}
	}

	cyclic := Diagram{"a": {"b"}, "b": {"a"}}
	if _, err := cyclic.TopologicalOrder(); !errors.Is(err, ErrCycleDetected) {
		t.Errorf("got %v, want ErrCycleDetected", err)
	}
	if cyclic.Acyclic() {
		t.Error("two-cycle reported acyclic")
	}
}
