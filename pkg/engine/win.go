package engine

// CheckWin implements spec.md §4.10 "Win condition": if only one nation
// remains non-defeated, it wins outright; otherwise any nation at or above
// the configured territory threshold wins and every other nation is
// immediately defeated. Returns the winner, or nil if the room continues.
func (room *Room) CheckWin() *Nation {
	var alive []*Nation
	for _, n := range room.Registry.Nations() {
		if n.Status != StatusDefeated {
			alive = append(alive, n)
		}
	}

	if len(alive) == 1 {
		return room.declareWinner(alive[0])
	}
	if len(alive) == 0 {
		return nil
	}

	for _, n := range alive {
		pct := 0.0
		if room.totalClaimable > 0 {
			pct = 100 * float64(n.TerritorySize()) / float64(room.totalClaimable)
		}
		if pct >= room.Config.WinRes.WinConditionPercentage {
			return room.declareWinner(n)
		}
	}
	return nil
}

func (room *Room) declareWinner(winner *Nation) *Nation {
	winner.Status = StatusWinner
	for _, n := range room.Registry.Nations() {
		if n != winner && n.Status != StatusDefeated {
			n.Status = StatusDefeated
		}
	}
	return winner
}
