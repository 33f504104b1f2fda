// Package retention decides which archive versions of each package are
// redundant: entries are grouped by package name, ranked newest first, and
// everything past the configured keep count goes on the discard list.
package retention

import (
	"sort"

	"github.com/erkanisik1/Pisilinux-tools/internal/archive"
)

// Group holds every scanned version of one package, ranked newest first.
type Group struct {
	Name    string
	Entries []archive.Entry
	Kept    []archive.Entry
	Discard []archive.Entry
}

// Newest returns the highest-ranked entry of the group.
func (g *Group) Newest() archive.Entry {
	return g.Entries[0]
}

// Plan is the discard decision for a whole repository scan. Building a
// plan is deterministic: groups iterate in name order and ranking is
// stable, so the same entries always produce the same discard list.
type Plan struct {
	Keep        int
	Groups      []*Group
	Discard     []archive.Entry
	KeptCount   int
	DiscardSize int64
}

// BuildPlan groups entries by package name, ranks each group and applies
// the keep-N-newest rule. keep == 0 discards every version of every
// package; gating that behind a confirmation is the caller's job.
func BuildPlan(entries []archive.Entry, keep int) *Plan {
	if keep < 0 {
		keep = 0
	}
	plan := &Plan{Keep: keep}

	byName := make(map[string]*Group)
	for _, e := range entries {
		g, ok := byName[e.Name]
		if !ok {
			g = &Group{Name: e.Name}
			byName[e.Name] = g
			plan.Groups = append(plan.Groups, g)
		}
		g.Entries = append(g.Entries, e)
	}

	sort.Slice(plan.Groups, func(i, j int) bool {
		return plan.Groups[i].Name < plan.Groups[j].Name
	})

	for _, g := range plan.Groups {
		// Stable: equal versions keep their scan order.
		sort.SliceStable(g.Entries, func(i, j int) bool {
			return g.Entries[i].Compare(g.Entries[j]) > 0
		})

		cut := keep
		if cut > len(g.Entries) {
			cut = len(g.Entries)
		}
		g.Kept = g.Entries[:cut]
		g.Discard = g.Entries[cut:]

		plan.KeptCount += len(g.Kept)
		for _, e := range g.Discard {
			plan.Discard = append(plan.Discard, e)
			plan.DiscardSize += e.Size
		}
	}

	return plan
}

// DiscardPaths returns the full path of every redundant archive, in plan
// order. Paths are reconstructed from each entry's own fields.
func (p *Plan) DiscardPaths() []string {
	paths := make([]string, len(p.Discard))
	for i, e := range p.Discard {
		paths[i] = e.Path()
	}
	return paths
}

// Empty reports whether the plan discards nothing.
func (p *Plan) Empty() bool {
	return len(p.Discard) == 0
}
