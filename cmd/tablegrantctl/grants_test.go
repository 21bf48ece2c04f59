package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
)

// matrixEditor drives a bare matrix the way the role editor does
type matrixEditor struct {
	m *permission.Matrix
}

func newMatrixEditor(tables ...string) *matrixEditor {
	catalog := make([]permission.Table, len(tables))
	for i, name := range tables {
		catalog[i] = permission.Table{Name: name}
	}
	return &matrixEditor{m: permission.DefaultMatrix(catalog)}
}

func (e *matrixEditor) Entries() []permission.Entry { return e.m.Entries() }

func (e *matrixEditor) Toggle(index int, c permission.Capability) error {
	entry, _ := e.m.Entry(index)
	return e.m.SetCapability(index, c, !entry.Has(c))
}

func (e *matrixEditor) ToggleColumn(c permission.Capability) (bool, error) {
	return e.m.ToggleColumn(c), nil
}

// countingEditor records how often the select-all toggle is used
type countingEditor struct {
	*matrixEditor
	columnToggles int
}

func (e *countingEditor) ToggleColumn(c permission.Capability) (bool, error) {
	e.columnToggles++
	return e.matrixEditor.ToggleColumn(c)
}

func TestParseGrant(t *testing.T) {
	tests := []struct {
		in   string
		want grant
	}{
		{"orders=read,update", grant{table: "orders", capabilities: []permission.Capability{permission.CapabilityRead, permission.CapabilityUpdate}}},
		{" orders = READ ", grant{table: "orders", capabilities: []permission.Capability{permission.CapabilityRead}}},
		{"orders=all", grant{table: "orders", capabilities: permission.CapabilityValues()}},
		{"orders=none", grant{table: "orders"}},
		{"orders=", grant{table: "orders"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseGrant(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, in := range []string{"orders", "=read", "orders=fly"} {
		t.Run("invalid "+in, func(t *testing.T) {
			_, err := parseGrant(in)
			assert.Error(t, err)
		})
	}
}

func TestEditPermissions(t *testing.T) {
	t.Run("grant sets exactly the listed capabilities", func(t *testing.T) {
		e := newMatrixEditor("orders", "invoices")
		require.NoError(t, e.m.SetCapability(0, permission.CapabilityDelete, true))

		require.NoError(t, editPermissions(e, nil, nil, []string{"orders=read,update"}))
		assert.Equal(t, []permission.Entry{
			{TableName: "orders", CanRead: true, CanUpdate: true},
			{TableName: "invoices"},
		}, e.Entries())
	})

	t.Run("all and none apply to every table before grants", func(t *testing.T) {
		e := newMatrixEditor("orders", "invoices")
		require.NoError(t, e.m.SetCapability(1, permission.CapabilityRead, true))
		require.NoError(t, e.m.SetCapability(0, permission.CapabilityDelete, true))
		require.NoError(t, e.m.SetCapability(1, permission.CapabilityDelete, true))

		err := editPermissions(e, []string{"read"}, []string{"delete"}, []string{"invoices=none"})
		require.NoError(t, err)
		assert.Equal(t, []permission.Entry{
			{TableName: "orders", CanRead: true},
			{TableName: "invoices"},
		}, e.Entries())
	})

	t.Run("none on a partial column clears it", func(t *testing.T) {
		e := newMatrixEditor("orders", "invoices")
		require.NoError(t, e.m.SetCapability(0, permission.CapabilityCreate, true))

		require.NoError(t, editPermissions(e, nil, []string{"create"}, nil))
		assert.Equal(t, permission.ColumnNone, e.m.ColumnState(permission.CapabilityCreate))
	})

	t.Run("column flags on an empty catalog do nothing", func(t *testing.T) {
		e := &countingEditor{matrixEditor: newMatrixEditor()}

		require.NoError(t, editPermissions(e, []string{"read"}, []string{"delete"}, nil))
		assert.Empty(t, e.Entries())
		assert.Zero(t, e.columnToggles)
	})

	t.Run("unknown table", func(t *testing.T) {
		e := newMatrixEditor("orders")

		err := editPermissions(e, nil, nil, []string{"ghosts=read"})
		assert.EqualError(t, err, `table "ghosts" is not in the catalog`)
	})

	t.Run("unknown capability", func(t *testing.T) {
		e := newMatrixEditor("orders")

		assert.EqualError(t, editPermissions(e, []string{"fly"}, nil, nil), `unknown capability "fly"`)
	})
}
