// Package classname parses human-entered class names ("Grade 8A", "form 3b")
// into their structured parts. Parsing is format-only: the allowed level bands
// are checked by the request validator, not here, so historical records whose
// bands differed can still be read back.
package classname

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Type is the schooling system a class belongs to.
type Type string

const (
	TypeGrade Type = "Grade"
	TypeForm  Type = "Form"
)

// Letter returns the single-character encoding used inside student IDs.
func (t Type) Letter() byte {
	if t == TypeForm {
		return 'F'
	}
	return 'G'
}

// Descriptor is the structured form of a class name.
type Descriptor struct {
	Type    Type
	Level   int
	Section string // single uppercase letter A-Z
}

// ErrInvalidFormat is returned when a class name does not match the expected
// "<Grade|Form> <level><section>" shape.
var ErrInvalidFormat = errors.New(`class name must look like "Grade 8A" or "Form 3B"`)

var namePattern = regexp.MustCompile(`^(?i)\s*(grade|form)\s+(\d{1,2})\s*([a-z])\s*$`)

// Parse converts a class name into a Descriptor. Input is case-insensitive;
// the section letter is uppercased.
func Parse(name string) (Descriptor, error) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return Descriptor{}, ErrInvalidFormat
	}

	level, err := strconv.Atoi(m[2])
	if err != nil || level == 0 {
		return Descriptor{}, ErrInvalidFormat
	}

	typ := TypeGrade
	if strings.EqualFold(m[1], string(TypeForm)) {
		typ = TypeForm
	}

	return Descriptor{
		Type:    typ,
		Level:   level,
		Section: strings.ToUpper(m[3]),
	}, nil
}

// Canonical renders the descriptor back into its canonical name, e.g.
// "Grade 8A". Parse(Canonical(d)) reproduces d for any valid descriptor.
func (d Descriptor) Canonical() string {
	return fmt.Sprintf("%s %d%s", d.Type, d.Level, d.Section)
}

// InBand reports whether the level falls inside the school's allowed bands:
// Grade 8-12 and Form 1-5. Callers decide whether to enforce this; see the
// package comment.
func (d Descriptor) InBand() bool {
	switch d.Type {
	case TypeGrade:
		return d.Level >= 8 && d.Level <= 12
	case TypeForm:
		return d.Level >= 1 && d.Level <= 5
	}
	return false
}
