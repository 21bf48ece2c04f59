package permission

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumns(t *testing.T) {
	m := NewMatrix([]Entry{
		{TableName: "orders", CanRead: true, CanCreate: true},
		{TableName: "users", CanRead: true},
	})

	assert.Equal(t, []Column{
		{Capability: CapabilityRead, State: ColumnFull},
		{Capability: CapabilityCreate, State: ColumnPartial},
		{Capability: CapabilityUpdate, State: ColumnNone},
		{Capability: CapabilityDelete, State: ColumnNone},
	}, m.Columns())
}

func TestColumnsRecomputedAfterEveryMutation(t *testing.T) {
	m := DefaultMatrix(testCatalog)
	assert.Equal(t, ColumnNone, m.ColumnState(CapabilityDelete))

	require.NoError(t, m.SetCapability(0, CapabilityDelete, true))
	assert.Equal(t, ColumnPartial, m.ColumnState(CapabilityDelete))

	require.NoError(t, m.SetCapability(1, CapabilityDelete, true))
	require.NoError(t, m.SetCapability(2, CapabilityDelete, true))
	assert.Equal(t, ColumnFull, m.ColumnState(CapabilityDelete))

	require.NoError(t, m.SetCapability(2, CapabilityDelete, false))
	assert.Equal(t, ColumnPartial, m.ColumnState(CapabilityDelete))
}

func TestToggleColumn(t *testing.T) {
	m := NewMatrix([]Entry{
		{TableName: "orders", CanUpdate: true},
		{TableName: "users"},
	})

	assert.True(t, m.ToggleColumn(CapabilityUpdate))
	assert.Equal(t, ColumnFull, m.ColumnState(CapabilityUpdate))

	assert.False(t, m.ToggleColumn(CapabilityUpdate))
	assert.Equal(t, ColumnNone, m.ColumnState(CapabilityUpdate))

	assert.Equal(t, ColumnNone, m.ColumnState(CapabilityRead))
}

func TestCapabilityNames(t *testing.T) {
	assert.Equal(t, []string{"read", "create", "update", "delete"}, CapabilityStrings())
	assert.Equal(t, "can_delete", CapabilityDelete.Field())

	c, err := CapabilityString("UPDATE")
	require.NoError(t, err)
	assert.Equal(t, CapabilityUpdate, c)

	_, err = CapabilityString("execute")
	assert.Error(t, err)
}

func TestEntryWireFormat(t *testing.T) {
	raw := `{"table_name":"orders","can_read":true,"can_create":false,"can_update":false,"can_delete":true}`

	var e Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, Entry{TableName: "orders", CanRead: true, CanDelete: true}, e)
	assert.Equal(t, []Capability{CapabilityRead, CapabilityDelete}, e.Granted())

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}
