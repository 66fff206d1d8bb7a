package engine

import (
	"math/rand"

	"github.com/rs/zerolog"
)

// Room is one running simulation instance: a map, an ownership matrix, a
// nation registry, resource-node claims, and the config bundle tuning all
// of it (spec.md §2, §6). A Room is not safe for concurrent use; callers
// serialize access to one room's Step (spec.md §5 "one goroutine per room").
type Room struct {
	ID     string
	Map    *Map
	Matrix *OwnershipMatrix

	Registry *Registry
	Claims   map[Coord]*ResourceNodeClaim

	Config *Config
	Logger zerolog.Logger

	Tick uint64

	// rng drives bot candidate selection (spec.md §4.8 "choose randomly from
	// the top K candidates"); seeded at construction from the room's start
	// seed (spec.md §6) so a room's bot behavior is reproducible from inputs.
	rng *rand.Rand

	// totalClaimable is the number of non-ocean cells on the map, cached at
	// construction time since it never changes; used to compute each
	// nation's territoryPercentage toward the win condition (spec.md §4.8).
	totalClaimable int

	// started latches true on the first CommandStartRoom; a second one is
	// rejected with ErrRoomAlreadyStarted rather than silently ignored.
	started bool

	// ended latches true the tick a winner is first declared, so Step only
	// reports the room-ended transition once even though CheckWin keeps
	// returning the same winner every tick afterward.
	ended bool
}

// NewRoom constructs a room bound to a map, config, and start seed. The
// config must already have passed Validate (spec.md §7: invalid config is a
// fatal, room-refuses-to-start condition — callers validate before calling
// this).
func NewRoom(id string, m *Map, cfg *Config, seed int64, logger zerolog.Logger) *Room {
	matrix := NewOwnershipMatrix(m.Width, m.Height)
	return &Room{
		ID:             id,
		Map:            m,
		Matrix:         matrix,
		Registry:       NewRegistry(matrix),
		Claims:         make(map[Coord]*ResourceNodeClaim),
		Config:         cfg,
		Logger:         logger.With().Str("roomId", id).Logger(),
		rng:            rand.New(rand.NewSource(seed)),
		totalClaimable: m.CountClaimable(),
	}
}
