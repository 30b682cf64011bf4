package models

// Action represents the decision carried by an ActionEntry
type Action string

const (
	// ActionKeep marks a version to be retained
	ActionKeep Action = "KEEP"
	// ActionDelete marks a version for removal/consolidation
	ActionDelete Action = "DELETE"
)

// Strategy selects which version in a group to keep
type Strategy string

const (
	// KeepLargest keeps the version with the maximum size (quality)
	KeepLargest Strategy = "largest"
	// KeepSmallest keeps the version with the minimum size (space)
	KeepSmallest Strategy = "smallest"
)

// Better reports whether candidate is preferred over current under the
// strategy. Equal sizes return false, so the first version in group order
// wins ties deterministically.
func (s Strategy) Better(candidate, current *Version) bool {
	switch s {
	case KeepSmallest:
		return candidate.Size < current.Size
	default:
		return candidate.Size > current.Size
	}
}

// Valid reports whether the strategy is a known variant.
func (s Strategy) Valid() bool {
	return s == KeepLargest || s == KeepSmallest
}

// ActionEntry is one row of the action plan, one per version inside a
// duplicate group. The action tag is mutated only by the decision engine;
// filtering and execution read it.
type ActionEntry struct {
	// Version this entry decides about
	Version *Version

	// Group is the parent group reference
	Group *Group

	// Action is the current keep/delete decision
	Action Action

	// Overridden distinguishes manual operator choice from automatic
	// strategy assignment
	Overridden bool
}

// Plan is the ordered action plan over all duplicate groups of one scan.
// Entries preserve group order and, within a group, version order.
type Plan struct {
	Entries []*ActionEntry
}

// GroupEntries returns the plan entries belonging to the given group, in
// plan order.
func (p *Plan) GroupEntries(g *Group) []*ActionEntry {
	var out []*ActionEntry
	for _, e := range p.Entries {
		if e.Group == g {
			out = append(out, e)
		}
	}
	return out
}

// Entry returns the plan entry for the given version ID, or nil.
func (p *Plan) Entry(versionID string) *ActionEntry {
	for _, e := range p.Entries {
		if e.Version.ID == versionID {
			return e
		}
	}
	return nil
}
