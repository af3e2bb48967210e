package service

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/scholark/scholark-backend/internal/model"
)

func newTestImportService() *ImportService {
	// Row validation needs no pool, redis or hub.
	return NewImportService(nil, nil, nil, nil, nil, nil, zerolog.Nop())
}

func TestValidateRowsSplitsValidAndFailed(t *testing.T) {
	s := newTestImportService()

	rows := []model.ImportRow{
		{Name: "Amina Moyo", Age: "14"},              // 1: ok
		{Name: "X"},                                  // 2: name too short
		{Name: "Brian Ncube", Age: "fourteen"},       // 3: non-numeric age
		{Name: "Chipo Dube", Guardian: "R. Dube"},    // 4: ok, no age
		{Name: ""},                                   // 5: missing name
		{Name: "Daniel Sibanda", Age: "2"},           // 6: age out of range
		{Name: "Ethel Nkomo", Contact: "0771234567"}, // 7: ok
	}

	protos, failures := s.validateRows(rows)

	if len(protos) != 3 {
		t.Fatalf("valid rows = %d, want 3", len(protos))
	}
	if len(failures) != 4 {
		t.Fatalf("failures = %d, want 4", len(failures))
	}

	wantFailedRows := []int{2, 3, 5, 6}
	for i, f := range failures {
		if f.Row != wantFailedRows[i] {
			t.Errorf("failure %d reported row %d, want %d (%s)", i, f.Row, wantFailedRows[i], f.Error)
		}
		if f.Error == "" {
			t.Errorf("failure for row %d has empty reason", f.Row)
		}
	}

	// Valid rows keep input order.
	wantNames := []string{"Amina Moyo", "Chipo Dube", "Ethel Nkomo"}
	for i, p := range protos {
		if p.Name != wantNames[i] {
			t.Errorf("proto %d name = %q, want %q", i, p.Name, wantNames[i])
		}
	}

	if protos[0].Age == nil || *protos[0].Age != 14 {
		t.Errorf("age not coerced for first row: %+v", protos[0])
	}
	if protos[1].Age != nil {
		t.Errorf("absent age should stay nil, got %v", *protos[1].Age)
	}
}

func TestValidateRowsTrimsWhitespace(t *testing.T) {
	s := newTestImportService()

	protos, failures := s.validateRows([]model.ImportRow{
		{Name: "  Amina Moyo  ", Guardian: " T. Moyo "},
	})
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %+v", failures)
	}
	if protos[0].Name != "Amina Moyo" || protos[0].Guardian != "T. Moyo" {
		t.Errorf("whitespace not trimmed: %+v", protos[0])
	}
}

func TestValidateRowsFailureMessagesUseJSONNames(t *testing.T) {
	s := newTestImportService()

	_, failures := s.validateRows([]model.ImportRow{{Name: "X"}})
	if len(failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(failures))
	}
	if !strings.Contains(failures[0].Error, "name") {
		t.Errorf("failure message %q does not reference the json field name", failures[0].Error)
	}
}

func TestValidateRowsAllInvalid(t *testing.T) {
	s := newTestImportService()

	protos, failures := s.validateRows([]model.ImportRow{{}, {}})
	if len(protos) != 0 {
		t.Errorf("valid rows = %d, want 0", len(protos))
	}
	if len(failures) != 2 {
		t.Errorf("failures = %d, want 2", len(failures))
	}
}
