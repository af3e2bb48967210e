package studentid

import (
	"sort"
	"testing"

	"github.com/scholark/scholark-backend/internal/classname"
)

func grade8A(year int) Scope {
	return ScopeFor(classname.Descriptor{Type: classname.TypeGrade, Level: 8, Section: "A"}, year)
}

func TestFormat(t *testing.T) {
	cases := []struct {
		scope Scope
		seq   int64
		want  string
	}{
		{grade8A(2025), 1, "Y2025-G8A-0001"},
		{grade8A(2025), 42, "Y2025-G8A-0042"},
		{grade8A(2025), 10000, "Y2025-G8A-10000"},
		{ScopeFor(classname.Descriptor{Type: classname.TypeForm, Level: 3, Section: "B"}, 2024), 7, "Y2024-F3B-0007"},
		{ScopeFor(classname.Descriptor{Type: classname.TypeGrade, Level: 12, Section: "Z"}, 2100), 999, "Y2100-G12Z-0999"},
	}

	for _, c := range cases {
		if got := Format(c.scope, c.seq); got != c.want {
			t.Errorf("Format(%+v, %d) = %q, want %q", c.scope, c.seq, got, c.want)
		}
	}
}

func TestFormatSortsByIssuanceOrder(t *testing.T) {
	scope := grade8A(2025)

	ids := make([]string, 0, 50)
	for seq := int64(1); seq <= 50; seq++ {
		ids = append(ids, Format(scope, seq))
	}

	if !sort.StringsAreSorted(ids) {
		t.Error("IDs within a scope are not lexicographically sorted by sequence")
	}
}

func TestParseRoundTrip(t *testing.T) {
	scopes := []Scope{
		grade8A(2025),
		ScopeFor(classname.Descriptor{Type: classname.TypeForm, Level: 1, Section: "C"}, 2000),
		ScopeFor(classname.Descriptor{Type: classname.TypeGrade, Level: 10, Section: "D"}, 2031),
	}

	for _, scope := range scopes {
		for _, seq := range []int64{1, 9, 9999, 12345} {
			id := Format(scope, seq)
			gotScope, gotSeq, err := Parse(id)
			if err != nil {
				t.Fatalf("Parse(%q): %v", id, err)
			}
			if gotScope != scope || gotSeq != seq {
				t.Errorf("Parse(%q) = (%+v, %d), want (%+v, %d)", id, gotScope, gotSeq, scope, seq)
			}
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"2025-G8A-0001",
		"Y2025-X8A-0001",
		"Y2025-G8A-1",
		"Y2025-G8a-0001",
		"Y25-G8A-0001",
		"Y2025G8A0001",
	}

	for _, in := range bad {
		if _, _, err := Parse(in); err != ErrMalformed {
			t.Errorf("Parse(%q): want ErrMalformed, got %v", in, err)
		}
	}
}
