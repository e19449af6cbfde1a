package pagination

import "testing"

func TestNormalizeClampsNegatives(t *testing.T) {
	p := Params{Offset: -3, Limit: -10}.Normalize()
	if p.Offset != 0 {
		t.Fatalf("expected offset 0, got %d", p.Offset)
	}
	if p.Limit != 0 {
		t.Fatalf("expected limit 0, got %d", p.Limit)
	}
}

func TestOrderClauseDirection(t *testing.T) {
	if got := (Params{}).OrderClause(); got != "id ASC" {
		t.Fatalf("expected ascending default, got %q", got)
	}
	if got := (Params{Descending: true}).OrderClause(); got != "id DESC" {
		t.Fatalf("expected descending clause, got %q", got)
	}
}
