package engine

// updateBorderOnAdd incrementally maintains n's border cache after (x,y) was
// just added to its territory (spec.md §4.3):
//   - add (x,y) to borderSet if any 4-neighbor is not owned by n;
//   - for each 4-neighbor already in borderSet, recheck it: if all of *its*
//     4-neighbors are now owned by n, it is no longer a border cell.
func (r *Registry) updateBorderOnAdd(n *Nation, c Coord, m *Map) {
	neighbors := m.neighbors4(c.X, c.Y)

	hasForeignNeighbor := false
	for _, nb := range neighbors {
		if r.matrix.Get(nb.X, nb.Y) != n.Index {
			hasForeignNeighbor = true
			break
		}
	}
	if hasForeignNeighbor {
		n.borderSet[c] = struct{}{}
	} else {
		delete(n.borderSet, c)
	}

	for _, nb := range neighbors {
		if !n.Owns(nb) {
			continue
		}
		if _, inBorder := n.borderSet[nb]; !inBorder {
			continue
		}
		if r.isInterior(n, nb, m) {
			delete(n.borderSet, nb)
		}
	}
}

// updateBorderOnRemove incrementally maintains n's border cache after (x,y)
// was just removed from its territory: (x,y) itself is dropped (handled by
// the caller before this runs), and every owned 4-neighbor becomes (or
// remains) a border cell, since it now borders a non-owned cell.
func (r *Registry) updateBorderOnRemove(n *Nation, c Coord, m *Map) {
	for _, nb := range m.neighbors4(c.X, c.Y) {
		if n.Owns(nb) {
			n.borderSet[nb] = struct{}{}
		}
	}
}

// isInterior reports whether every 4-neighbor of c is owned by n (i.e. c is
// no longer a frontier cell).
func (r *Registry) isInterior(n *Nation, c Coord, m *Map) bool {
	for _, nb := range m.neighbors4(c.X, c.Y) {
		if r.matrix.Get(nb.X, nb.Y) != n.Index {
			return false
		}
	}
	return true
}

// RebuildBorder recomputes n's border cache from scratch by scanning its
// full territory: O(|territory|). Used as a fallback when an internal
// invariant check (spec.md §7) finds the incremental cache has drifted.
func (r *Registry) RebuildBorder(n *Nation, m *Map) {
	fresh := make(map[Coord]struct{}, len(n.borderSet))
	for c := range n.territorySet {
		for _, nb := range m.neighbors4(c.X, c.Y) {
			if r.matrix.Get(nb.X, nb.Y) != n.Index {
				fresh[c] = struct{}{}
				break
			}
		}
	}
	n.borderSet = fresh
}

// CheckBorderInvariant verifies spec.md §8 property 2 for n and, if it does
// not hold, rebuilds the cache and returns false so the caller can log the
// violation (spec.md §7: internal invariant violations are logged with
// nation context, the affected cache is force-rebuilt, and the tick
// continues).
func (r *Registry) CheckBorderInvariant(n *Nation, m *Map) bool {
	for c := range n.territorySet {
		expected := false
		for _, nb := range m.neighbors4(c.X, c.Y) {
			if r.matrix.Get(nb.X, nb.Y) != n.Index {
				expected = true
				break
			}
		}
		_, inSet := n.borderSet[c]
		if expected != inSet {
			r.RebuildBorder(n, m)
			return false
		}
	}
	for c := range n.borderSet {
		if _, owned := n.territorySet[c]; !owned {
			r.RebuildBorder(n, m)
			return false
		}
	}
	return true
}
