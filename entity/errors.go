package entity

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound is returned by repositories when no row matches, including
// rows that exist but fall outside the caller's ownership scope.
var ErrNotFound = errors.New("not found")

// FieldErrors collects validation messages keyed by field name. It renders
// over HTTP as a bad-request payload with per-field message lists.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(strings.Join(e[field], ", "))
	}
	return b.String()
}

// AsFieldErrors unwraps err into FieldErrors if it carries one.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
