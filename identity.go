package kernz

import (
	"fmt"

	"github.com/google/uuid"
)

// Identity names a kernel or pipeline for debugging, error paths, and schemas.
// Each Identity carries a UUID so that two components sharing a name remain
// distinguishable in events and traces.
//
// Identities are intended to be declared once and reused:
//
//	var (
//	    DecrementID = kernz.NewIdentity("decrement", "Subtracts a constant from every element")
//	    SumID       = kernz.NewIdentity("sum", "Adds all elements together")
//	)
type Identity struct {
	id          uuid.UUID
	name        string
	description string
}

// NewIdentity creates an Identity with a freshly generated UUID.
func NewIdentity(name, description string) Identity {
	return Identity{
		id:          uuid.New(),
		name:        name,
		description: description,
	}
}

// ID returns the unique identifier.
func (i Identity) ID() uuid.UUID {
	return i.id
}

// Name returns the human-readable name.
func (i Identity) Name() string {
	return i.name
}

// Description returns the optional description.
func (i Identity) Description() string {
	return i.description
}

// String implements fmt.Stringer.
func (i Identity) String() string {
	if i.id == uuid.Nil {
		return i.name
	}
	return fmt.Sprintf("%s (%s)", i.name, i.id.String()[:8])
}
