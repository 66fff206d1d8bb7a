package engine

// CheckConnectivity runs the flood-fill connectivity audit for one nation
// (spec.md §4.4): BFS from CapitalCell over owned 4-neighbors; any owned
// cell not reached is pruned via Registry primitives. If the capital cell
// itself is no longer owned, succession is attempted; absent a candidate,
// the nation is defeated.
//
// Returns true if the nation survived the audit (possibly via succession),
// false if it was defeated.
func (r *Registry) CheckConnectivity(n *Nation, m *Map) bool {
	if n.Status != StatusActive {
		return n.Status != StatusDefeated
	}

	if !n.Owns(n.CapitalCell) {
		return r.succeedOrDefeat(n, m)
	}

	reachable := r.floodFillFrom(n, n.CapitalCell, m)
	if len(reachable) == len(n.territorySet) {
		return true
	}

	// Prune every owned cell that wasn't reached from the capital.
	var stray []Coord
	for c := range n.territorySet {
		if _, ok := reachable[c]; !ok {
			stray = append(stray, c)
		}
	}
	for _, c := range stray {
		r.RemoveCell(n, c.X, c.Y, m)
	}
	return true
}

// floodFillFrom returns the set of cells owned by n that are reachable from
// start via owned 4-neighbors.
func (r *Registry) floodFillFrom(n *Nation, start Coord, m *Map) map[Coord]struct{} {
	visited := make(map[Coord]struct{}, len(n.territorySet))
	if !n.Owns(start) {
		return visited
	}
	queue := []Coord{start}
	visited[start] = struct{}{}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, nb := range m.neighbors4(c.X, c.Y) {
			if !n.Owns(nb) {
				continue
			}
			if _, seen := visited[nb]; seen {
				continue
			}
			visited[nb] = struct{}{}
			queue = append(queue, nb)
		}
	}
	return visited
}

// succeedOrDefeat implements capital succession: the nearest (Manhattan)
// surviving town is promoted to capital and the old capital record is
// deleted. With no candidate town, the nation is defeated and its territory
// erased.
func (r *Registry) succeedOrDefeat(n *Nation, m *Map) bool {
	best := -1
	bestDist := 0
	for i, city := range n.Cities {
		if city.Type != CityTown {
			continue
		}
		if !n.Owns(city.Coord) {
			continue
		}
		d := ManhattanDistance(n.CapitalCell, city.Coord)
		if best == -1 || d < bestDist {
			best, bestDist = i, d
		}
	}

	if best == -1 {
		r.Defeat(n, m)
		return false
	}

	n.Cities[best].Type = CityCapital
	n.CapitalCell = n.Cities[best].Coord
	n.Cities = removeCapitalRecord(n.Cities, n.CapitalCell)

	// The promoted town may itself be disconnected from some of the
	// nation's remaining territory; re-run the flood fill from the new seat.
	reachable := r.floodFillFrom(n, n.CapitalCell, m)
	var stray []Coord
	for c := range n.territorySet {
		if _, ok := reachable[c]; !ok {
			stray = append(stray, c)
		}
	}
	for _, c := range stray {
		r.RemoveCell(n, c.X, c.Y, m)
	}
	return true
}

// removeCapitalRecord deletes the (now-stale) old capital city record,
// keeping the newly-promoted capital (at newCapital) intact. A nation has
// at most one capital record at a time (spec.md invariant), so after
// promotion there would otherwise be two cities of type capital.
func removeCapitalRecord(cities []City, newCapital Coord) []City {
	out := cities[:0]
	seenNewCapital := false
	for _, c := range cities {
		if c.Type == CityCapital {
			if c.Coord == newCapital && !seenNewCapital {
				seenNewCapital = true
				out = append(out, c)
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// Defeat transitions n to defeated and erases its entire territory through
// the normal RemoveCell path, which guarantees the delta encoder sees a sub
// entry for every cell the nation held (spec.md §8 property 6).
func (r *Registry) Defeat(n *Nation, m *Map) {
	n.Status = StatusDefeated
	cells := make([]Coord, 0, len(n.territorySet))
	for c := range n.territorySet {
		cells = append(cells, c)
	}
	for _, c := range cells {
		r.RemoveCell(n, c.X, c.Y, m)
	}
	n.Cities = nil
	n.Orders = ArrowOrders{}
}
