package builder

import (
	"bytes"
	"fmt"
	"reflect"
	"time"

	"github.com/Konsultn-Engineering/erpcall/attribute"
	"github.com/Konsultn-Engineering/erpcall/schema"
)

type assignKind uint8

const (
	unset assignKind = iota
	bound
	nullSentinel
)

func (k assignKind) String() string {
	switch k {
	case bound:
		return "bound"
	case nullSentinel:
		return "null sentinel"
	}
	return "unset"
}

type assignment struct {
	kind    assignKind
	value   any
	literal string
}

func (a assignment) String() string {
	switch a.kind {
	case bound:
		return fmt.Sprintf("value %v", a.value)
	case nullSentinel:
		return "literal " + a.literal
	}
	return "nothing"
}

// paramStore holds one assignment per table column, indexed by the
// column's position so output order never depends on map iteration.
type paramStore struct {
	table *schema.Table
	slots []assignment
	bound int
}

func newParamStore(table *schema.Table) *paramStore {
	return &paramStore{
		table: table,
		slots: make([]assignment, table.Len()),
	}
}

func (s *paramStore) setBound(column string, value any) error {
	if value == nil {
		return nil
	}
	return s.set(column, assignment{kind: bound, value: value})
}

func (s *paramStore) setNullSentinel(column, literal string) error {
	if literal == "" {
		return nil
	}
	return s.set(column, assignment{kind: nullSentinel, literal: literal})
}

func (s *paramStore) set(column string, a assignment) error {
	i, ok := s.table.Index(column)
	if !ok {
		return &UnknownColumnError{Column: column}
	}
	old := s.slots[i]
	if old.kind == unset {
		s.slots[i] = a
		if a.kind == bound {
			s.bound++
		}
		return nil
	}
	if old.kind == a.kind && sameAssignment(old, a) {
		return nil
	}
	return &ConflictingAssignmentError{
		Column: s.table.Column(i).Name,
		Old:    old.String(),
		New:    a.String(),
	}
}

func (s *paramStore) at(i int) assignment {
	return s.slots[i]
}

func (s *paramStore) lookup(column string) (assignment, bool) {
	i, ok := s.table.Index(column)
	if !ok {
		return assignment{}, false
	}
	return s.slots[i], true
}

func sameAssignment(a, b assignment) bool {
	if a.kind == nullSentinel {
		return a.literal == b.literal
	}
	return valuesEqual(a.value, b.value)
}

func valuesEqual(a, b any) bool {
	switch x := a.(type) {
	case attribute.GuardedString:
		y, ok := b.(attribute.GuardedString)
		return ok && x.Equal(y)
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	}
	return reflect.DeepEqual(a, b)
}
