package engine

// EncodeDeltas performs the single O(W*H) diff pass described in spec.md
// §4.9: for every cell whose owner changed since the last snapshot, push a
// sub onto the old owner's outbound stream and an add onto the new owner's.
// It also recomputes each nation's territoryPercentage and finally
// snapshots the matrix (current -> previous) for the next tick's diff.
//
// Deriving deltas from the matrix diff, rather than having AddCell/
// RemoveCell append to the outbound streams as they mutate the matrix,
// means the streams are correct by construction regardless of which code
// path changed a cell's owner — arrow conversion, hole-filling, connectivity
// pruning, or defeat all just flip current[i], and this pass catches every
// one of them exactly once (spec.md §8 property 6).
func (room *Room) EncodeDeltas() {
	for _, n := range room.Registry.Nations() {
		n.outbound.reset()
	}

	for i := 0; i < room.Matrix.Len(); i++ {
		oldOwner := room.Matrix.PreviousOwnerAt(i)
		newOwner := room.Matrix.OwnerAt(i)
		if oldOwner == newOwner {
			continue
		}
		c := room.Map.XY(i)
		if oldOwner != Unowned {
			if old := room.Registry.ByIndex(oldOwner); old != nil {
				old.outbound.Sub = append(old.outbound.Sub, c)
			}
		}
		if newOwner != Unowned {
			if cur := room.Registry.ByIndex(newOwner); cur != nil {
				cur.outbound.Add = append(cur.outbound.Add, c)
			}
		}
	}

	claimable := room.totalClaimable
	for _, n := range room.Registry.Nations() {
		pct := 0.0
		if claimable > 0 {
			pct = 100 * float64(n.TerritorySize()) / float64(claimable)
		}
		n.territoryPercentage = pct
	}

	room.Matrix.Snapshot()
}

// OutboundDelta returns the add/sub coordinate streams built by the most
// recent EncodeDeltas call, for publishing to clients (spec.md §6).
func (n *Nation) OutboundDelta() TerritoryDelta {
	return n.outbound
}
