package report

import (
	"testing"
)

type scored struct {
	id    string
	score int
}

func TestRankDescending(t *testing.T) {
	in := []scored{{"a", 1}, {"b", 3}, {"c", 2}}
	out := Rank(in, func(s scored) int { return s.score }, true)

	want := []string{"b", "c", "a"}
	for i, w := range want {
		if out[i].id != w {
			t.Fatalf("position %d: got %s, want %s", i, out[i].id, w)
		}
	}
}

func TestRankAscending(t *testing.T) {
	in := []scored{{"a", 3}, {"b", 1}, {"c", 2}}
	out := Rank(in, func(s scored) int { return s.score }, false)

	want := []string{"b", "c", "a"}
	for i, w := range want {
		if out[i].id != w {
			t.Fatalf("position %d: got %s, want %s", i, out[i].id, w)
		}
	}
}

func TestRankStableTies(t *testing.T) {
	in := []scored{{"first", 5}, {"second", 5}, {"third", 5}, {"fourth", 9}}

	desc := Rank(in, func(s scored) int { return s.score }, true)
	wantDesc := []string{"fourth", "first", "second", "third"}
	for i, w := range wantDesc {
		if desc[i].id != w {
			t.Fatalf("descending position %d: got %s, want %s", i, desc[i].id, w)
		}
	}

	asc := Rank(in, func(s scored) int { return s.score }, false)
	wantAsc := []string{"first", "second", "third", "fourth"}
	for i, w := range wantAsc {
		if asc[i].id != w {
			t.Fatalf("ascending position %d: got %s, want %s", i, asc[i].id, w)
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []scored{{"a", 2}, {"b", 1}}
	_ = Rank(in, func(s scored) int { return s.score }, false)

	if in[0].id != "a" || in[1].id != "b" {
		t.Fatal("input slice was reordered")
	}
}

func TestRankStringKeys(t *testing.T) {
	in := []scored{{"zeta", 0}, {"Alpha", 0}, {"mike", 0}}
	out := Rank(in, func(s scored) string { return s.id }, false)

	if out[0].id != "Alpha" || out[1].id != "mike" || out[2].id != "zeta" {
		t.Fatalf("unexpected order: %v", out)
	}
}
