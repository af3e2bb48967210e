// Package studentid defines the external wire format of student identifiers.
//
// The format is printed on report cards and re-typed by staff, so it is part
// of the system's public contract: changing it is a breaking change that
// requires a migration note.
package studentid

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/scholark/scholark-backend/internal/classname"
)

// Scope is the counter partition a sequence number is allocated from.
// No two learners ever share a (Scope, Seq) pair.
type Scope struct {
	Year    int
	Type    classname.Type
	Level   int
	Section string
}

// ScopeFor builds the issuance scope for a class descriptor and cohort year.
func ScopeFor(d classname.Descriptor, year int) Scope {
	return Scope{Year: year, Type: d.Type, Level: d.Level, Section: d.Section}
}

// Format renders a student ID, e.g. Y2025-G8A-0001.
//
// The sequence is zero-padded to four digits so IDs sort lexicographically in
// issuance order within a scope; beyond 9999 the field widens and plain string
// sort no longer applies, which is acceptable for class-sized cohorts.
func Format(scope Scope, seq int64) string {
	return fmt.Sprintf("Y%04d-%c%d%s-%04d", scope.Year, scope.Type.Letter(), scope.Level, scope.Section, seq)
}

// ErrMalformed is returned by Parse for strings that are not student IDs.
var ErrMalformed = errors.New("malformed student id")

var idPattern = regexp.MustCompile(`^Y(\d{4})-([GF])(\d{1,2})([A-Z])-(\d{4,})$`)

// Parse decomposes a student ID back into its scope and sequence number.
// Used to sanity-check IDs that staff re-type from printed reports.
func Parse(id string) (Scope, int64, error) {
	m := idPattern.FindStringSubmatch(strings.TrimSpace(id))
	if m == nil {
		return Scope{}, 0, ErrMalformed
	}

	year, _ := strconv.Atoi(m[1])
	level, _ := strconv.Atoi(m[3])
	seq, _ := strconv.ParseInt(m[5], 10, 64)

	typ := classname.TypeGrade
	if m[2] == "F" {
		typ = classname.TypeForm
	}

	return Scope{Year: year, Type: typ, Level: level, Section: m[4]}, seq, nil
}
