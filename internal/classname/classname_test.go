package classname

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Descriptor
	}{
		{"Grade 8A", Descriptor{TypeGrade, 8, "A"}},
		{"grade 8a", Descriptor{TypeGrade, 8, "A"}},
		{"GRADE 12 C", Descriptor{TypeGrade, 12, "C"}},
		{"Form 3B", Descriptor{TypeForm, 3, "B"}},
		{"  form 1z ", Descriptor{TypeForm, 1, "Z"}},
	}

	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"Grade",
		"Grade 8",
		"Grade A8",
		"Grade 8AB",
		"Standard 5A",
		"Grade8A", // space between type and level is required
		"Form 123A",
		"Form 3B extra",
	}

	for _, in := range bad {
		if _, err := Parse(in); err != ErrInvalidFormat {
			t.Errorf("Parse(%q): want ErrInvalidFormat, got %v", in, err)
		}
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	descriptors := []Descriptor{
		{TypeGrade, 8, "A"},
		{TypeGrade, 12, "F"},
		{TypeForm, 1, "B"},
		{TypeForm, 5, "Z"},
	}

	for _, d := range descriptors {
		got, err := Parse(d.Canonical())
		if err != nil {
			t.Fatalf("Parse(%q): %v", d.Canonical(), err)
		}
		if got != d {
			t.Errorf("round trip of %+v via %q produced %+v", d, d.Canonical(), got)
		}
	}
}

func TestInBand(t *testing.T) {
	cases := []struct {
		d    Descriptor
		want bool
	}{
		{Descriptor{TypeGrade, 8, "A"}, true},
		{Descriptor{TypeGrade, 12, "A"}, true},
		{Descriptor{TypeGrade, 7, "A"}, false},
		{Descriptor{TypeGrade, 13, "A"}, false},
		{Descriptor{TypeForm, 1, "A"}, true},
		{Descriptor{TypeForm, 5, "A"}, true},
		{Descriptor{TypeForm, 6, "A"}, false},
		{Descriptor{Type("Standard"), 3, "A"}, false},
	}

	for _, c := range cases {
		if got := c.d.InBand(); got != c.want {
			t.Errorf("InBand(%+v) = %v, want %v", c.d, got, c.want)
		}
	}
}

func TestTypeLetter(t *testing.T) {
	if TypeGrade.Letter() != 'G' {
		t.Errorf("TypeGrade.Letter() = %c, want G", TypeGrade.Letter())
	}
	if TypeForm.Letter() != 'F' {
		t.Errorf("TypeForm.Letter() = %c, want F", TypeForm.Letter())
	}
}
