package dedupe

import (
	"fmt"

	"github.com/plexdedupe/plexdedupe/pkg/models"
)

// ApplyStrategy produces the baseline action plan: for every group with two
// or more versions, exactly one entry is KEEP (the strategy's extreme, ties
// broken by first position in group order) and the rest are DELETE. Groups
// with a single version produce no entries. Reapplying the same strategy to
// an unmodified group set yields identical entries.
func ApplyStrategy(groups []*models.Group, strategy models.Strategy) *models.Plan {
	plan := &models.Plan{}
	for _, g := range groups {
		if !g.HasDuplicates() {
			continue
		}
		keep := naturalChoice(g.Versions, strategy)
		for _, v := range g.Versions {
			action := models.ActionDelete
			if v == keep {
				action = models.ActionKeep
			}
			plan.Entries = append(plan.Entries, &models.ActionEntry{
				Version: v,
				Group:   g,
				Action:  action,
			})
		}
	}
	return plan
}

// naturalChoice returns the strategy's preferred version. Better() is strict,
// so the first version at the extreme size wins.
func naturalChoice(versions []*models.Version, strategy models.Strategy) *models.Version {
	if len(versions) == 0 {
		return nil
	}
	best := versions[0]
	for _, v := range versions[1:] {
		if strategy.Better(v, best) {
			best = v
		}
	}
	return best
}

// Compensation reports an automatic invariant repair performed during an
// override: the entry that was promoted back to KEEP so that its group never
// ends up with every version marked for removal.
type Compensation struct {
	Promoted *models.ActionEntry
}

// Override flips one entry's action and marks it overridden. If the change
// would leave the entry's group with zero KEEP entries, another entry is
// auto-promoted: the most recently demoted KEEP if known, else the strategy's
// natural choice among the remaining versions. Returns the compensation (nil
// if none was needed) so the caller can inform the operator.
func Override(plan *models.Plan, versionID string, action models.Action, lastKeep string, strategy models.Strategy) (*Compensation, error) {
	entry := plan.Entry(versionID)
	if entry == nil {
		return nil, fmt.Errorf("no plan entry for version %q", versionID)
	}

	entry.Action = action
	entry.Overridden = true

	if action == models.ActionKeep {
		return nil, nil
	}

	siblings := plan.GroupEntries(entry.Group)
	if hasKeep(siblings) {
		return nil, nil
	}

	promoted := repairKeepInvariant(siblings, entry, lastKeep, strategy)
	if promoted == nil {
		// Single-entry group cannot lose its KEEP; undo the flip.
		entry.Action = models.ActionKeep
		return nil, nil
	}
	promoted.Action = models.ActionKeep
	return &Compensation{Promoted: promoted}, nil
}

func hasKeep(entries []*models.ActionEntry) bool {
	for _, e := range entries {
		if e.Action == models.ActionKeep {
			return true
		}
	}
	return false
}

// repairKeepInvariant picks the entry to promote when a group has lost its
// last KEEP. Pure over the group's entries: prefers the most recently KEEP
// entry (lastKeep), excluding the one just demoted, falling back to the
// strategy's natural choice.
func repairKeepInvariant(entries []*models.ActionEntry, demoted *models.ActionEntry, lastKeep string, strategy models.Strategy) *models.ActionEntry {
	var candidates []*models.ActionEntry
	for _, e := range entries {
		if e != demoted {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if lastKeep != "" {
		for _, e := range candidates {
			if e.Version.ID == lastKeep {
				return e
			}
		}
	}

	best := candidates[0]
	for _, e := range candidates[1:] {
		if strategy.Better(e.Version, best.Version) {
			best = e
		}
	}
	return best
}
