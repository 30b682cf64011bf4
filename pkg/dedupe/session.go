package dedupe

import (
	"github.com/plexdedupe/plexdedupe/pkg/models"
)

// Session owns the mutable state of one scan: the group set, the action plan,
// the filter state, and the per-group memory of the most recent KEEP choice.
// Each scan gets its own session, so repeated or concurrent scans never share
// state. The plan is mutated only through ApplyStrategy and Override; filter
// and view operations are read-only.
type Session struct {
	groups   []*models.Group
	plan     *models.Plan
	strategy models.Strategy
	filters  FilterState

	// lastKeep remembers, per group key, the version that most recently
	// held KEEP, guiding invariant repair on override.
	lastKeep map[string]string
}

// NewSession builds a session over the given groups and applies the strategy
// to produce the baseline plan.
func NewSession(groups []*models.Group, strategy models.Strategy) *Session {
	s := &Session{
		groups:   groups,
		filters:  make(FilterState),
		lastKeep: make(map[string]string),
	}
	s.ApplyStrategy(strategy)
	return s
}

// ApplyStrategy rebuilds the plan under the given strategy, discarding any
// prior overrides. The filter state survives; the override memory does not.
func (s *Session) ApplyStrategy(strategy models.Strategy) {
	s.strategy = strategy
	s.plan = ApplyStrategy(s.groups, strategy)
	s.lastKeep = make(map[string]string)
	for _, e := range s.plan.Entries {
		if e.Action == models.ActionKeep {
			s.lastKeep[e.Group.Key] = e.Version.ID
		}
	}
}

// Override flips one entry's action, repairing the at-least-one-KEEP
// invariant if needed. The returned compensation is nil when no repair
// occurred.
func (s *Session) Override(versionID string, action models.Action) (*Compensation, error) {
	entry := s.plan.Entry(versionID)
	var prior string
	if entry != nil {
		prior = s.lastKeep[entry.Group.Key]
	}

	comp, err := Override(s.plan, versionID, action, prior, s.strategy)
	if err != nil {
		return nil, err
	}

	// Update the KEEP memory after the flip settles.
	if entry.Action == models.ActionKeep {
		s.lastKeep[entry.Group.Key] = entry.Version.ID
	} else if comp != nil {
		s.lastKeep[entry.Group.Key] = comp.Promoted.Version.ID
	}
	return comp, nil
}

// SetFilter updates one column predicate. An empty query clears the column.
func (s *Session) SetFilter(col Column, query string) {
	if query == "" {
		delete(s.filters, col)
		return
	}
	s.filters[col] = query
}

// ClearFilters removes every predicate, restoring full visibility without
// recomputing the plan.
func (s *Session) ClearFilters() {
	s.filters = make(FilterState)
}

// View returns the read-only plan view under the current filter state,
// recomputed on every call.
func (s *Session) View() []GroupView {
	return ApplyFilter(s.plan, s.filters)
}

// Plan exposes the current action plan.
func (s *Session) Plan() *models.Plan {
	return s.plan
}

// Groups exposes the scanned group set.
func (s *Session) Groups() []*models.Group {
	return s.groups
}

// Strategy returns the strategy the current plan was built with.
func (s *Session) Strategy() models.Strategy {
	return s.strategy
}

// DeleteSet returns the visible DELETE-tagged entries in plan order; this is
// the plan subset handed to the executor.
func (s *Session) DeleteSet() []*models.ActionEntry {
	var out []*models.ActionEntry
	for _, gv := range s.View() {
		for _, ev := range gv.Entries {
			if ev.Visible && ev.Entry.Action == models.ActionDelete {
				out = append(out, ev.Entry)
			}
		}
	}
	return out
}

// KeepTargets returns, per group key, the version chosen as hardlink target:
// the group's current KEEP entry.
func (s *Session) KeepTargets() map[string]*models.Version {
	targets := make(map[string]*models.Version)
	for _, e := range s.plan.Entries {
		if e.Action == models.ActionKeep {
			if _, ok := targets[e.Group.Key]; !ok {
				targets[e.Group.Key] = e.Version
			}
		}
	}
	return targets
}
