package permission

//go:generate go run github.com/dmarkham/enumer -type Capability -trimprefix Capability -transform lower -json -yaml -output capability.gen.go
type Capability int

const (
	CapabilityRead Capability = iota
	CapabilityCreate
	CapabilityUpdate
	CapabilityDelete
)

// Field returns the wire name of the capability, e.g. "can_read".
func (i Capability) Field() string {
	return "can_" + i.String()
}
