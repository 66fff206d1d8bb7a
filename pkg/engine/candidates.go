package engine

import (
	"math"
	"sort"
)

// candidate is one cell under consideration for conversion by a live arrow.
type candidate struct {
	Coord          Coord
	Source         Coord // an adjacent cell already owned by the attacker
	OwnedNeighbors int
	PathProgress   float64 // 0..1, how far along the arrow's path the nearest point lies
	DistToPath     float64
	DistToWaypoint float64
	Score          float64
}

// generateCandidates builds the scored, capped candidate set for one arrow's
// tick of expansion (spec.md §4.5 "Candidate generation"/"Scoring").
func generateCandidates(room *Room, attacker *Nation, arrow *Arrow) []candidate {
	cfg := room.Config
	waypoint := arrow.Path[arrow.CurrentIndex]
	segments := len(arrow.Path) - 1

	seen := make(map[Coord]bool)
	var out []candidate

	for border := range attacker.borderSet {
		for _, nb := range room.Map.neighbors4(border.X, border.Y) {
			if attacker.Owns(nb) || seen[nb] {
				continue
			}
			cell := room.Map.At(nb.X, nb.Y)
			if !cell.Claimable() {
				continue
			}

			distToPath, progress := pathDistanceAndProgress(arrow.Path, nb, segments)
			if distToPath > float64(cfg.Arrow.PathCorridorRadius) {
				continue
			}

			ownedNeighbors := countOwnedNeighbors(room, attacker, nb)
			distToWaypoint := float64(ManhattanDistance(nb, waypoint))
			nearSpearhead := distToWaypoint <= 2 || distToPath <= 1

			if !nearSpearhead && ownedNeighbors < cfg.Arrow.MinOwnedNeighborsForStable {
				continue
			}

			seen[nb] = true
			out = append(out, candidate{
				Coord:          nb,
				Source:         border,
				OwnedNeighbors: ownedNeighbors,
				PathProgress:   progress,
				DistToPath:     distToPath,
				DistToWaypoint: distToWaypoint,
			})
		}
	}

	for i := range out {
		out[i].Score = scoreCandidate(out[i])
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	if len(out) > cfg.Arrow.MaxArrowCandidates {
		out = out[:cfg.Arrow.MaxArrowCandidates]
	}
	return out
}

// scoreCandidate combines compactness, path progress, and proximity terms
// (spec.md §4.5 "Scoring").
func scoreCandidate(c candidate) float64 {
	compactness := float64(c.OwnedNeighbors) * 2.0
	if c.OwnedNeighbors >= 3 {
		compactness += 6.0 // extra-large bonus for "hole" cells
	}
	return compactness + c.PathProgress*10.0 - c.DistToPath*0.5 - c.DistToWaypoint*0.3
}

func countOwnedNeighbors(room *Room, n *Nation, c Coord) int {
	count := 0
	for _, nb := range room.Map.neighbors4(c.X, c.Y) {
		if n.Owns(nb) {
			count++
		}
	}
	return count
}

// pathDistanceAndProgress returns the minimum perpendicular distance from c
// to any segment of path, and the fractional progress (0..1) along the path
// of the nearest point on the segment achieving that minimum (segments are
// weighted equally, whatever their length).
func pathDistanceAndProgress(path []Coord, c Coord, segments int) (dist float64, progress float64) {
	best := math.MaxFloat64
	bestProgress := 0.0
	for i := 0; i < segments; i++ {
		d := pointToSegmentDistance(c, path[i], path[i+1])
		if d < best {
			best = d
			a, b := path[i], path[i+1]
			dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
			t := 0.0
			if lenSq := dx*dx + dy*dy; lenSq > 0 {
				t = math.Max(0, math.Min(1, (float64(c.X-a.X)*dx+float64(c.Y-a.Y)*dy)/lenSq))
			}
			bestProgress = float64(i) + t
		}
	}
	if segments == 0 {
		return 0, 0
	}
	return best, bestProgress / float64(segments)
}

// pointToSegmentDistance is the Euclidean distance from p to the closest
// point on segment [a,b].
func pointToSegmentDistance(p, a, b Coord) float64 {
	ax, ay := float64(a.X), float64(a.Y)
	bx, by := float64(b.X), float64(b.Y)
	px, py := float64(p.X), float64(p.Y)

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	projX := ax + t*dx
	projY := ay + t*dy
	return math.Hypot(px-projX, py-projY)
}
