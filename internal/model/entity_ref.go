package model

import "strings"

// RefKind tells which variant an EntityRef holds.
type RefKind int

const (
	// RefAbsent means no entity was named.
	RefAbsent RefKind = iota
	// RefKnown points at an existing entity by id.
	RefKnown
	// RefNew asks for a new entity with the given name.
	RefNew
)

func (k RefKind) String() string {
	switch k {
	case RefKnown:
		return "known"
	case RefNew:
		return "new"
	default:
		return "absent"
	}
}

// EntityRef is a resolved reference to an item or shop: Known(id),
// NewByName(name) or Absent.
type EntityRef struct {
	ID   string
	Name string
	Kind RefKind
}

// Known references an existing entity.
func Known(id, name string) EntityRef {
	return EntityRef{Kind: RefKnown, ID: id, Name: name}
}

// NewByName requests a new entity. A blank name yields Absent.
func NewByName(name string) EntityRef {
	if strings.TrimSpace(name) == "" {
		return Absent()
	}
	return EntityRef{Kind: RefNew, Name: name}
}

// Absent is the empty reference.
func Absent() EntityRef {
	return EntityRef{Kind: RefAbsent}
}

// IsKnown reports whether r references an existing entity.
func (r EntityRef) IsKnown() bool { return r.Kind == RefKnown && r.ID != "" }

// IsNew reports whether r asks for a new entity.
func (r EntityRef) IsNew() bool { return r.Kind == RefNew }

// IsAbsent reports whether r references nothing.
func (r EntityRef) IsAbsent() bool { return !r.IsKnown() && !r.IsNew() }
