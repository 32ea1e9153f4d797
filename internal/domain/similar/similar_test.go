package similar

import (
	"math"
	"testing"
)

func sample() []Document {
	return []Document{{"a", 0.9}, {"b", 0.7}, {"c", 0.5}, {"d", 0.1}}
}

func TestSlice(t *testing.T) {
	tests := []struct {
		name        string
		start, size int
		want        []string
	}{
		{"unbounded", 0, -1, []string{"a", "b", "c", "d"}},
		{"first two", 0, 2, []string{"a", "b"}},
		{"middle", 1, 2, []string{"b", "c"}},
		{"size past end", 2, 10, []string{"c", "d"}},
		{"start past end", 4, 2, nil},
		{"zero size", 0, 0, nil},
		{"negative start", -3, 1, []string{"a"}},
		{"max size from offset", 1, math.MaxInt, []string{"b", "c", "d"}},
		{"max size from zero", 0, math.MaxInt, []string{"a", "b", "c", "d"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Slice(sample(), tc.start, tc.size)
			if got == nil {
				t.Fatal("Slice must never return nil")
			}
			if len(got) != len(tc.want) {
				t.Fatalf("len = %d, want %d (%v)", len(got), len(tc.want), got)
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Errorf("[%d] = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSlice_Copies(t *testing.T) {
	list := sample()
	got := Slice(list, 0, 1)
	got[0].ID = "mutated"
	if list[0].ID != "a" {
		t.Error("Slice must not alias the source list")
	}
}

func TestTable_Clone(t *testing.T) {
	tbl := Table{"a": {{"b", 0.5}}, "b": {}}
	cp := tbl.Clone()
	cp["a"][0].Score = 1
	if tbl["a"][0].Score != 0.5 {
		t.Error("Clone must deep-copy lists")
	}
	if _, ok := cp["b"]; !ok {
		t.Error("empty lists must survive Clone")
	}
	if Table(nil).Clone() != nil {
		t.Error("nil table clones to nil")
	}
}
