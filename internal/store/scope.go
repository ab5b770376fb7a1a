package store

// Scope selects which identities a read may return.
type Scope int

const (
	// ActiveOnly hides identities with a pending deletion request.
	ActiveOnly Scope = iota
	// IncludeInactive returns identities regardless of the active flag.
	IncludeInactive
)

func (s Scope) String() string {
	if s == IncludeInactive {
		return "include_inactive"
	}
	return "active_only"
}

// SaveMode selects whether record invariants are checked before a write.
type SaveMode int

const (
	// PartialValidation writes without running the identity validator.
	PartialValidation SaveMode = iota
	// FullValidation runs the identity validator first.
	FullValidation
)
