package engine

import (
	"github.com/kestrelgames/territoryd/internal/bot"
)

// botCandidate is one cell a bot nation could target with a new attack arrow.
type botCandidate struct {
	Coord Coord
}

// RunBotDirector implements spec.md §4.8: every botOrderIntervalTicks, each
// bot nation with no live attack arrow picks a target cell and enqueues a
// short arrow from its capital.
func (room *Room) RunBotDirector() {
	interval := uint64(room.Config.Bot.BotOrderIntervalTicks)
	if interval == 0 || room.Tick%interval != 0 {
		return
	}

	for _, n := range room.Registry.Nations() {
		if !n.IsBot || n.Status != StatusActive || n.Orders.Attack != nil {
			continue
		}
		room.issueBotOrder(n)
	}
}

func (room *Room) issueBotOrder(n *Nation) {
	candidates := room.botCandidates(n)
	if len(candidates) == 0 {
		return
	}

	features := make([]float32, 0, len(candidates)*bot.NumFeatures)
	capitalBiome := room.Map.At(n.CapitalCell.X, n.CapitalCell.Y).Biome
	nearestEnemyCapital, hasEnemy := room.nearestEnemyCapital(n)

	for _, c := range candidates {
		cell := room.Map.At(c.Coord.X, c.Coord.Y)

		hasNode := 0.0
		if cell.ResourceNode != nil {
			hasNode = 1.0
		}

		adjNode := 0.0
		for _, nb := range room.Map.neighbors4(c.Coord.X, c.Coord.Y) {
			if room.Map.At(nb.X, nb.Y).ResourceNode != nil {
				adjNode = 1.0
				break
			}
		}

		similarity := biomeSimilarity(room.Config, capitalBiome, cell.Biome)

		proximity := 0.0
		if hasEnemy {
			d := float64(ManhattanDistance(c.Coord, nearestEnemyCapital))
			proximity = 1.0 / (1.0 + d)
		}

		features = append(features, float32(hasNode), float32(adjNode), float32(similarity), float32(proximity))
	}

	scores, err := bot.ScoreCandidates(features, bot.DefaultWeights)
	if err != nil {
		room.Logger.Error().Err(err).Str("owner", n.OwnerID).Msg("bot candidate scoring failed")
		return
	}

	top := rankTopK(candidates, scores, room.Config.Bot.BotCandidatePickTop)
	if len(top) == 0 {
		return
	}
	picked := top[room.rng.Intn(len(top))]

	commitment := room.Config.Bot.BotAttackPercent
	power := n.Population * commitment
	if power <= 0 {
		return
	}

	arrow, err := NewArrow(
		newArrowID(n, room.Tick, ArrowAttack),
		ArrowAttack,
		[]Coord{n.CapitalCell, picked.Coord},
		power,
		commitment,
		room.Tick,
	)
	if err != nil {
		room.Logger.Error().Err(err).Str("owner", n.OwnerID).Msg("bot arrow construction failed")
		return
	}

	n.Population -= power
	n.Orders.Attack = arrow
}

// botCandidates reuses the frontier scan from generateCandidates (border
// neighbors not yet owned, claimable, not already seen) without the
// path-corridor constraint, since a bot has no path yet — it is choosing one.
func (room *Room) botCandidates(n *Nation) []botCandidate {
	seen := make(map[Coord]bool)
	var out []botCandidate
	for border := range n.borderSet {
		for _, nb := range room.Map.neighbors4(border.X, border.Y) {
			if n.Owns(nb) || seen[nb] {
				continue
			}
			cell := room.Map.At(nb.X, nb.Y)
			if !cell.Claimable() {
				continue
			}
			seen[nb] = true
			out = append(out, botCandidate{Coord: nb})
		}
	}
	return out
}

func (room *Room) nearestEnemyCapital(n *Nation) (Coord, bool) {
	best := Coord{}
	bestDist := -1
	for _, other := range room.Registry.Nations() {
		if other == n || other.Status != StatusActive {
			continue
		}
		d := ManhattanDistance(n.CapitalCell, other.CapitalCell)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = other.CapitalCell
		}
	}
	return best, bestDist != -1
}

// rankTopK returns the K highest-scored candidates, descending.
func rankTopK(candidates []botCandidate, scores []float32, k int) []botCandidate {
	type scored struct {
		c botCandidate
		s float32
	}
	pairs := make([]scored, len(candidates))
	for i, c := range candidates {
		pairs[i] = scored{c: c, s: scores[i]}
	}
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0 && pairs[j].s > pairs[j-1].s; j-- {
			pairs[j], pairs[j-1] = pairs[j-1], pairs[j]
		}
	}
	if k > len(pairs) {
		k = len(pairs)
	}
	out := make([]botCandidate, k)
	for i := 0; i < k; i++ {
		out[i] = pairs[i].c
	}
	return out
}
