package models

// Group is the set of Versions sharing one logical title. Membership is
// computed once per scan and never mutated afterward; only the actions on
// its versions change.
type Group struct {
	// Key is the logical title key supplied by the catalog
	Key string

	// Title is the display string ("Avatar", "Show - S01E02 - Pilot")
	Title string

	// Kind is the media kind of the title
	Kind MediaKind

	// Versions in catalog order. Order is preserved for deterministic
	// tie-breaking but carries no other meaning.
	Versions []*Version
}

// HasDuplicates reports whether the group carries more than one version and
// therefore participates in the action plan.
func (g *Group) HasDuplicates() bool {
	return len(g.Versions) > 1
}

// Version returns the member with the given version ID, or nil.
func (g *Group) Version(id string) *Version {
	for _, v := range g.Versions {
		if v.ID == id {
			return v
		}
	}
	return nil
}
