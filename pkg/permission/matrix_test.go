package permission

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCatalog = []Table{
	{Name: "orders", Description: "Customer orders"},
	{Name: "users", Description: "Registered users"},
	{Name: "invoices", Description: "Billing invoices"},
}

func TestDefaultMatrix(t *testing.T) {
	m := DefaultMatrix(testCatalog)

	require.Equal(t, 3, m.Len())
	for i, e := range m.Entries() {
		assert.Equal(t, testCatalog[i].Name, e.TableName)
		assert.Empty(t, e.Granted())
	}
}

func TestSetCapability(t *testing.T) {
	m := DefaultMatrix(testCatalog)

	require.NoError(t, m.SetCapability(1, CapabilityUpdate, true))

	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{TableName: "users", CanUpdate: true}, entries[1])
	assert.Equal(t, DefaultEntry("orders"), entries[0])
	assert.Equal(t, DefaultEntry("invoices"), entries[2])

	require.NoError(t, m.SetCapability(1, CapabilityUpdate, false))
	e, ok := m.Entry(1)
	require.True(t, ok)
	assert.False(t, e.CanUpdate)
}

func TestSetCapabilityErrors(t *testing.T) {
	m := DefaultMatrix(testCatalog)

	err := m.SetCapability(3, CapabilityRead, true)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))

	err = m.SetCapability(-1, CapabilityRead, true)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))

	err = m.SetCapability(0, Capability(9), true)
	assert.True(t, errors.Is(err, ErrUnknownCapability))

	assert.Equal(t, DefaultMatrix(testCatalog).Entries(), m.Entries())
}

func TestSetCapabilityForAllLeavesOtherCapabilities(t *testing.T) {
	m := NewMatrix([]Entry{
		{TableName: "orders", CanCreate: true},
		{TableName: "users", CanDelete: true, CanUpdate: true},
		{TableName: "invoices"},
	})
	before := m.Entries()

	m.SetCapabilityForAll(CapabilityRead, true)

	assert.True(t, m.IsCapabilityFullySet(CapabilityRead))
	for i, e := range m.Entries() {
		assert.True(t, e.CanRead)
		assert.Equal(t, before[i].CanCreate, e.CanCreate)
		assert.Equal(t, before[i].CanUpdate, e.CanUpdate)
		assert.Equal(t, before[i].CanDelete, e.CanDelete)
	}
}

func TestNewMatrixCopiesInput(t *testing.T) {
	entries := []Entry{{TableName: "orders"}}
	m := NewMatrix(entries)

	entries[0].CanRead = true
	assert.False(t, m.IsCapabilityFullySet(CapabilityRead))

	out := m.Entries()
	out[0].CanDelete = true
	e, _ := m.Entry(0)
	assert.False(t, e.CanDelete)
}

func TestFullyAndPartiallySetAreExclusive(t *testing.T) {
	states := [][]Entry{
		{{TableName: "a"}},
		{{TableName: "a", CanRead: true}},
		{{TableName: "a", CanRead: true}, {TableName: "b"}},
		{{TableName: "a", CanRead: true, CanDelete: true}, {TableName: "b", CanRead: true}},
		{{TableName: "a"}, {TableName: "b"}, {TableName: "c", CanUpdate: true}},
	}

	for _, entries := range states {
		m := NewMatrix(entries)
		for _, c := range CapabilityValues() {
			full := m.IsCapabilityFullySet(c)
			partial := m.IsCapabilityPartiallySet(c)
			assert.False(t, full && partial, "capability %s on %v", c, entries)
		}
	}
}

func TestEmptyMatrix(t *testing.T) {
	m := NewMatrix(nil)

	for _, c := range CapabilityValues() {
		assert.False(t, m.IsCapabilityFullySet(c))
		assert.False(t, m.IsCapabilityPartiallySet(c))
		assert.Equal(t, ColumnNone, m.ColumnState(c))
	}
}
