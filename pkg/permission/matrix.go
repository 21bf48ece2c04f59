package permission

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange   = errors.New("table index out of range")
	ErrUnknownCapability = errors.New("unknown capability")
)

// Matrix is the editable permission set of one role, addressed by table index.
// The order and length of the entries never change after construction.
type Matrix struct {
	entries []Entry
}

// NewMatrix creates a matrix holding a copy of entries
func NewMatrix(entries []Entry) *Matrix {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return &Matrix{entries: cp}
}

// DefaultMatrix creates an all-false matrix covering the catalog
func DefaultMatrix(catalog []Table) *Matrix {
	entries := make([]Entry, len(catalog))
	for i, table := range catalog {
		entries[i] = DefaultEntry(table.Name)
	}
	return &Matrix{entries: entries}
}

// Len returns the number of tables in the matrix
func (m *Matrix) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the entries in table order
func (m *Matrix) Entries() []Entry {
	cp := make([]Entry, len(m.entries))
	copy(cp, m.entries)
	return cp
}

// Entry returns the entry at index
func (m *Matrix) Entry(index int) (Entry, bool) {
	if index < 0 || index >= len(m.entries) {
		return Entry{}, false
	}
	return m.entries[index], true
}

// SetCapability replaces the value of one capability on one table
func (m *Matrix) SetCapability(index int, c Capability, value bool) error {
	if !c.IsACapability() {
		return fmt.Errorf("%w: %d", ErrUnknownCapability, c)
	}
	if index < 0 || index >= len(m.entries) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(m.entries))
	}
	m.entries[index] = m.entries[index].With(c, value)
	return nil
}

// SetCapabilityForAll sets one capability on every table
func (m *Matrix) SetCapabilityForAll(c Capability, value bool) {
	for i := range m.entries {
		m.entries[i] = m.entries[i].With(c, value)
	}
}

// IsCapabilityFullySet reports whether every table grants the capability.
// An empty matrix is never fully set.
func (m *Matrix) IsCapabilityFullySet(c Capability) bool {
	granted, total := m.count(c)
	return total > 0 && granted == total
}

// IsCapabilityPartiallySet reports whether some but not all tables grant the capability
func (m *Matrix) IsCapabilityPartiallySet(c Capability) bool {
	granted, total := m.count(c)
	return granted > 0 && granted < total
}

func (m *Matrix) count(c Capability) (granted, total int) {
	for _, e := range m.entries {
		if e.Has(c) {
			granted++
		}
	}
	return granted, len(m.entries)
}
