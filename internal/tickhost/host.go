// Package tickhost runs one simulation room's fixed-interval tick loop
// (spec.md §4.10 "Tick Driver", §5 "single cooperative task per room"),
// draining its inbound command queue each tick and handing the outbound
// payload to a cache/transport pair. Grounded on this codebase's
// TimerListener ticker-loop idiom, adapted from expiry-triggered resolution
// to a fixed-interval driver.
package tickhost

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kestrelgames/territoryd/internal/logger"
	"github.com/kestrelgames/territoryd/internal/store"
	"github.com/kestrelgames/territoryd/pkg/engine"
)

// snapshotInterval is how many ticks elapse between persistence writes; a
// persistence failure is logged and does not interrupt the tick loop
// (spec.md §7 "Persistence failure").
const snapshotInterval = 50

// Publisher is the transport-side sink for one tick's outbound payload. The
// reference cmd/server wires this to a transport.Hub plus a store.RoomCache
// publish, but tickhost only depends on this narrow interface.
type Publisher interface {
	Publish(roomID string, views []engine.NationView)

	// RoomEnded is called exactly once, the tick a winner is first declared
	// (spec.md §4.10 "Win condition").
	RoomEnded(roomID string, winnerOwnerID string)
}

// Host drives one room's tick loop on its own goroutine.
type Host struct {
	room   *engine.Room
	store  store.RoomStore
	pub    Publisher
	logger zerolog.Logger

	inbound chan engine.Command
	stop    chan struct{}
}

// New creates a Host for an already-constructed room. The host's logger is
// the global logger tagged with the room id via logger.ForRoom, so every log
// line this host emits can be correlated back to its room without callers
// having to pass one in.
func New(room *engine.Room, roomStore store.RoomStore, pub Publisher) *Host {
	ctx := logger.WithRoomID(context.Background(), room.ID)
	return &Host{
		room:    room,
		store:   roomStore,
		pub:     pub,
		logger:  logger.ForRoom(ctx),
		inbound: make(chan engine.Command, 256),
		stop:    make(chan struct{}),
	}
}

// Enqueue queues a command to be integrated at the start of the next tick
// (spec.md §5: "observes each command as an atomic event between ticks").
// It never blocks the caller on a full queue; an overloaded room drops the
// command and logs, rather than applying backpressure to callers unrelated
// to this room's tick loop.
func (h *Host) Enqueue(cmd engine.Command) {
	select {
	case h.inbound <- cmd:
	default:
		h.logger.Warn().Str("owner", cmd.Owner).Msg("inbound command queue full, dropping command")
	}
}

// Stop cancels the room's scheduled next tick; an in-flight tick completes
// first (spec.md §5 "an in-flight tick completes to preserve invariants").
func (h *Host) Stop() {
	close(h.stop)
}

// Run drives the room's tick loop until Stop is called or ctx is canceled.
// If a tick overruns its interval, the next one starts immediately with no
// catch-up loop (spec.md §4.10).
func (h *Host) Run(ctx context.Context) {
	interval := time.Duration(h.room.Config.TickRateMs) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.logger.Info().Dur("interval", interval).Msg("room tick loop started")

	tickCount := uint64(0)
	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Msg("room tick loop stopped (context canceled)")
			return
		case <-h.stop:
			h.logger.Info().Msg("room tick loop stopped")
			return
		case <-ticker.C:
			h.runOneTick()
			tickCount++
			if tickCount%snapshotInterval == 0 {
				h.persist(ctx)
			}
		}
	}
}

func (h *Host) runOneTick() {
	cmds := h.drainInbound()
	views, winner := h.room.Step(cmds)
	if h.pub == nil {
		return
	}
	h.pub.Publish(h.room.ID, views)
	if winner != nil {
		h.pub.RoomEnded(h.room.ID, winner.OwnerID)
	}
}

func (h *Host) drainInbound() []engine.Command {
	var cmds []engine.Command
	for {
		select {
		case cmd := <-h.inbound:
			cmds = append(cmds, cmd)
		default:
			return cmds
		}
	}
}

func (h *Host) persist(ctx context.Context) {
	if h.store == nil {
		return
	}
	snapshot := h.room.BuildSnapshot(time.Now())
	if err := h.store.SaveSnapshot(ctx, snapshot); err != nil {
		h.logger.Error().Err(err).Msg("room snapshot persistence failed, continuing with in-memory state")
	}
}
