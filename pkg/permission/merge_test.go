package permission

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name      string
		catalog   []Table
		persisted []Entry
		expected  []Entry
		dropped   []string
	}{
		{
			name:    "fills missing tables with defaults",
			catalog: []Table{{Name: "orders"}, {Name: "users"}},
			persisted: []Entry{
				{TableName: "orders", CanRead: true},
			},
			expected: []Entry{
				{TableName: "orders", CanRead: true},
				{TableName: "users"},
			},
		},
		{
			name:    "follows catalog order, not persisted order",
			catalog: []Table{{Name: "a"}, {Name: "b"}, {Name: "c"}},
			persisted: []Entry{
				{TableName: "c", CanDelete: true},
				{TableName: "a", CanCreate: true},
			},
			expected: []Entry{
				{TableName: "a", CanCreate: true},
				{TableName: "b"},
				{TableName: "c", CanDelete: true},
			},
		},
		{
			name:    "drops tables no longer in the catalog",
			catalog: []Table{{Name: "orders"}},
			persisted: []Entry{
				{TableName: "legacy", CanRead: true},
				{TableName: "orders", CanUpdate: true},
				{TableName: "legacy", CanDelete: true},
			},
			expected: []Entry{
				{TableName: "orders", CanUpdate: true},
			},
			dropped: []string{"legacy"},
		},
		{
			name:      "no persisted entries",
			catalog:   []Table{{Name: "orders"}, {Name: "users"}},
			persisted: nil,
			expected:  []Entry{{TableName: "orders"}, {TableName: "users"}},
		},
		{
			name:      "empty catalog",
			catalog:   nil,
			persisted: []Entry{{TableName: "orders", CanRead: true}},
			expected:  []Entry{},
			dropped:   []string{"orders"},
		},
		{
			name:    "name match is exact",
			catalog: []Table{{Name: "Orders"}},
			persisted: []Entry{
				{TableName: "orders", CanRead: true},
			},
			expected: []Entry{{TableName: "Orders"}},
			dropped:  []string{"orders"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Merge(tt.catalog, tt.persisted)

			assert.Len(t, res.Entries, len(tt.catalog))
			assert.Equal(t, tt.expected, res.Entries)
			assert.Equal(t, tt.dropped, res.Dropped)
		})
	}
}

func TestValidate(t *testing.T) {
	catalog := []Table{{Name: "orders"}, {Name: "users"}}

	assert.NoError(t, Validate(catalog, []Entry{{TableName: "users"}}))
	assert.NoError(t, Validate(catalog, nil))

	err := Validate(catalog, []Entry{{TableName: "payments"}})
	assert.True(t, errors.Is(err, ErrUnknownTable))

	err = Validate(catalog, []Entry{{TableName: "orders"}, {TableName: "orders"}})
	assert.True(t, errors.Is(err, ErrDuplicateTable))
}
