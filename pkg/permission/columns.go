package permission

// ColumnState is the aggregate of one capability over all tables
type ColumnState int

const (
	ColumnNone ColumnState = iota
	ColumnPartial
	ColumnFull
)

func (s ColumnState) String() string {
	switch s {
	case ColumnPartial:
		return "partial"
	case ColumnFull:
		return "full"
	}
	return "none"
}

// Column pairs a capability with its aggregate state
type Column struct {
	Capability Capability
	State      ColumnState
}

// ColumnState derives the state of one capability from the current entries
func (m *Matrix) ColumnState(c Capability) ColumnState {
	switch {
	case m.IsCapabilityFullySet(c):
		return ColumnFull
	case m.IsCapabilityPartiallySet(c):
		return ColumnPartial
	}
	return ColumnNone
}

// Columns derives the state of every capability column
func (m *Matrix) Columns() []Column {
	values := CapabilityValues()
	columns := make([]Column, len(values))
	for i, c := range values {
		columns[i] = Column{Capability: c, State: m.ColumnState(c)}
	}
	return columns
}

// ToggleColumn applies the "select all" checkbox of a column: a full column
// is cleared, anything else is set. It returns the value applied.
func (m *Matrix) ToggleColumn(c Capability) bool {
	value := m.ColumnState(c) != ColumnFull
	m.SetCapabilityForAll(c, value)
	return value
}
