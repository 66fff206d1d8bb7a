package engine

// Step advances the room by exactly one tick, in the strict order spec.md
// §4.10 requires: integrate commands, grow population, advance arrows and
// run the bot director, tick resource claims, audit connectivity, check for
// a winner, encode deltas, and return the outbound payload. The matrix
// snapshot (current -> previous) happens inside EncodeDeltas, immediately
// before this returns, so the matrix and the deltas it just emitted can
// never disagree (spec.md §5 "never leaves matrix and deltas in
// disagreement").
//
// The second return value is non-nil only on the tick a winner is first
// declared; CheckWin itself keeps reporting the same winner on every
// subsequent tick, but a caller broadcasting a room-ended event only wants
// that transition once.
func (room *Room) Step(cmds []Command) ([]NationView, *Nation) {
	room.ApplyCommands(cmds)

	room.TickGrowth()

	room.RunBotDirector()
	room.AdvanceArrows()

	room.TickResourceClaims()
	for _, n := range room.Registry.Nations() {
		if n.Status == StatusActive {
			n.Bonus = room.BonusBundle(n)
		}
	}

	room.runConnectivityAudits()

	var newlyEnded *Nation
	if winner := room.CheckWin(); winner != nil && !room.ended {
		room.ended = true
		newlyEnded = winner
	}

	room.EncodeDeltas()

	room.Tick++

	return room.BuildOutbound(), newlyEnded
}

// runConnectivityAudits runs the flood-fill audit on schedule, plus an
// off-schedule pass for any nation that lost a cell this tick (spec.md
// §4.4).
func (room *Room) runConnectivityAudits() {
	scheduled := room.Config.ConnectivityCheckIntervalTicks > 0 &&
		room.Tick%uint64(room.Config.ConnectivityCheckIntervalTicks) == 0

	lost := room.Registry.DrainLostCell()

	for _, n := range room.Registry.Nations() {
		if n.Status != StatusActive {
			continue
		}
		if scheduled || lost[n] {
			room.Registry.CheckConnectivity(n, room.Map)
		}
		if !room.Registry.CheckBorderInvariant(n, room.Map) {
			room.Logger.Error().Str("owner", n.OwnerID).Msg("border set invariant violated, rebuilt")
		}
	}
}
