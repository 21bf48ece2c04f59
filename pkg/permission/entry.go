package permission

// Table is a grantable resource of the table catalog
type Table struct {
	Name        string `json:"table_name"`
	Description string `json:"table_comment"`
}

// Entry holds the capabilities a role has on one table
type Entry struct {
	TableName string `json:"table_name"`
	CanRead   bool   `json:"can_read"`
	CanCreate bool   `json:"can_create"`
	CanUpdate bool   `json:"can_update"`
	CanDelete bool   `json:"can_delete"`
}

// DefaultEntry returns an entry granting nothing on the table
func DefaultEntry(tableName string) Entry {
	return Entry{TableName: tableName}
}

// Has reports whether the entry grants the capability
func (e Entry) Has(c Capability) bool {
	switch c {
	case CapabilityRead:
		return e.CanRead
	case CapabilityCreate:
		return e.CanCreate
	case CapabilityUpdate:
		return e.CanUpdate
	case CapabilityDelete:
		return e.CanDelete
	}
	return false
}

// With returns a copy of the entry with a single capability replaced
func (e Entry) With(c Capability, value bool) Entry {
	switch c {
	case CapabilityRead:
		e.CanRead = value
	case CapabilityCreate:
		e.CanCreate = value
	case CapabilityUpdate:
		e.CanUpdate = value
	case CapabilityDelete:
		e.CanDelete = value
	}
	return e
}

// Granted lists the capabilities the entry grants, in declaration order
func (e Entry) Granted() []Capability {
	granted := make([]Capability, 0, len(_CapabilityValues))
	for _, c := range CapabilityValues() {
		if e.Has(c) {
			granted = append(granted, c)
		}
	}
	return granted
}
