package service

import (
	"errors"
	"testing"
)

func TestParsePatchAcceptsDescriptiveFields(t *testing.T) {
	raw := []byte(`{"name": "Amina Moyo", "guardian": "T. Moyo", "contact": "+263771234567", "age": 14}`)

	patch, err := ParsePatch(raw)
	if err != nil {
		t.Fatalf("ParsePatch: %v", err)
	}
	if patch.Name == nil || *patch.Name != "Amina Moyo" {
		t.Errorf("name not carried through: %+v", patch)
	}
	if patch.Age == nil || *patch.Age != 14 {
		t.Errorf("age not carried through: %+v", patch)
	}
}

func TestParsePatchRejectsIdentityFields(t *testing.T) {
	cases := []struct {
		raw   string
		field string
	}{
		{`{"student_id": "Y2025-G8A-0002"}`, "student_id"},
		{`{"class_id": 9}`, "class_id"},
		{`{"status": "archived"}`, "status"},
		{`{"id": 1}`, "id"},
		{`{"enrollment_date": "2025-01-01"}`, "enrollment_date"},
		{`{"name": "ok", "class_id": 3}`, "class_id"},
	}

	for _, c := range cases {
		_, err := ParsePatch([]byte(c.raw))
		var ife *ImmutableFieldError
		if !errors.As(err, &ife) {
			t.Errorf("ParsePatch(%s): want ImmutableFieldError, got %v", c.raw, err)
			continue
		}
		if ife.Field != c.field {
			t.Errorf("ParsePatch(%s): flagged field %q, want %q", c.raw, ife.Field, c.field)
		}
	}
}

func TestParsePatchRejectsInvalidJSON(t *testing.T) {
	if _, err := ParsePatch([]byte(`{"name":`)); err == nil {
		t.Error("ParsePatch accepted truncated JSON")
	}
	var ife *ImmutableFieldError
	if _, err := ParsePatch([]byte(`{"name":`)); errors.As(err, &ife) {
		t.Error("JSON syntax error misreported as an immutable-field violation")
	}
}

func TestParsePatchEmptyObject(t *testing.T) {
	patch, err := ParsePatch([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParsePatch({}): %v", err)
	}
	if !patch.IsEmpty() {
		t.Errorf("empty object produced non-empty patch: %+v", patch)
	}
}
