package engine

import "time"

// CoordStream is the parallel-array wire encoding of a list of coordinates
// (spec.md §6: `{x:[], y:[]}`), cheaper to marshal than an array of objects.
type CoordStream struct {
	X []int `json:"x"`
	Y []int `json:"y"`
}

func toCoordStream(coords []Coord) CoordStream {
	s := CoordStream{X: make([]int, len(coords)), Y: make([]int, len(coords))}
	for i, c := range coords {
		s.X[i] = c.X
		s.Y[i] = c.Y
	}
	return s
}

// TerritoryDeltaView is the outbound wire form of one nation's add/sub
// streams for one tick (spec.md §6).
type TerritoryDeltaView struct {
	Add CoordStream `json:"add"`
	Sub CoordStream `json:"sub"`
}

// ArrowView is the sanitized outbound form of an arrow: internal fields like
// stalledTicks that only matter to the engine itself are left out.
type ArrowView struct {
	ID             string      `json:"id"`
	Type           ArrowType   `json:"type"`
	Path           []Coord     `json:"path"`
	CurrentIndex   int         `json:"currentIndex"`
	RemainingPower float64     `json:"remainingPower"`
	Status         ArrowStatus `json:"status"`
}

// ArrowOrdersView is the sanitized outbound form of a nation's live arrows.
type ArrowOrdersView struct {
	Attack *ArrowView `json:"attack,omitempty"`
	Defend *ArrowView `json:"defend,omitempty"`
}

// NationView is the per-nation outbound payload for one tick (spec.md §6).
type NationView struct {
	Owner               string             `json:"owner"`
	Status              NationStatus       `json:"status"`
	Population          float64            `json:"population"`
	MaxPopulation       float64            `json:"maxPopulation"`
	Resources           ResourceBundle     `json:"resources"`
	Cities              []City             `json:"cities"`
	ArrowOrders         ArrowOrdersView    `json:"arrowOrders"`
	TerritoryDelta      TerritoryDeltaView `json:"territoryDelta"`
	TerritoryPercentage float64            `json:"territoryPercentage"`
}

func sanitizeArrow(a *Arrow) *ArrowView {
	if a == nil {
		return nil
	}
	return &ArrowView{
		ID:             a.ID,
		Type:           a.Type,
		Path:           a.Path,
		CurrentIndex:   a.CurrentIndex,
		RemainingPower: a.RemainingPower,
		Status:         a.Status,
	}
}

// BuildOutbound returns the per-tick outbound payload for every nation,
// reflecting the deltas computed by the most recent EncodeDeltas call
// (spec.md §4.10 step 9).
func (room *Room) BuildOutbound() []NationView {
	out := make([]NationView, 0, len(room.Registry.Nations()))
	for _, n := range room.Registry.Nations() {
		out = append(out, NationView{
			Owner:         n.OwnerID,
			Status:        n.Status,
			Population:    n.Population,
			MaxPopulation: n.MaxPopulation,
			Resources:     n.Resources,
			Cities:        n.Cities,
			ArrowOrders: ArrowOrdersView{
				Attack: sanitizeArrow(n.Orders.Attack),
				Defend: sanitizeArrow(n.Orders.Defend),
			},
			TerritoryDelta: TerritoryDeltaView{
				Add: toCoordStream(n.outbound.Add),
				Sub: toCoordStream(n.outbound.Sub),
			},
			TerritoryPercentage: n.territoryPercentage,
		})
	}
	return out
}

// BuildFullTerritoryView returns a NationView whose TerritoryDelta.Add
// covers every cell the nation currently owns and whose Sub is empty, for
// the "new client connect" case (spec.md §6).
func (room *Room) BuildFullTerritoryView(n *Nation) NationView {
	return NationView{
		Owner:         n.OwnerID,
		Status:        n.Status,
		Population:    n.Population,
		MaxPopulation: n.MaxPopulation,
		Resources:     n.Resources,
		Cities:        n.Cities,
		ArrowOrders: ArrowOrdersView{
			Attack: sanitizeArrow(n.Orders.Attack),
			Defend: sanitizeArrow(n.Orders.Defend),
		},
		TerritoryDelta: TerritoryDeltaView{
			Add: toCoordStream(n.FullTerritoryView()),
		},
		TerritoryPercentage: n.territoryPercentage,
	}
}

// NationSnapshot is the persisted form of one nation: everything BuildOutbound
// exposes plus the internal bookkeeping needed to resume a room (spec.md §6
// "persisted state layout").
type NationSnapshot struct {
	OwnerID       string         `json:"ownerId"`
	Index         uint16         `json:"index"`
	Status        NationStatus   `json:"status"`
	IsBot         bool           `json:"isBot"`
	CapitalCell   Coord          `json:"capitalCell"`
	Cities        []City         `json:"cities"`
	Population    float64        `json:"population"`
	MaxPopulation float64        `json:"maxPopulation"`
	Resources     ResourceBundle `json:"resources"`
	Territory     []Coord        `json:"territory"`
	Attack        *Arrow         `json:"attack,omitempty"`
	Defend        *Arrow         `json:"defend,omitempty"`
}

// RoomSnapshot is the full, opaque-to-transport persisted room state
// (spec.md §6: "ownership matrix, nation list, arrow list, resource claims,
// tick count, and last-modified timestamp"). The engine produces it via
// BuildSnapshot; nothing in this repository rebuilds a Room from one.
type RoomSnapshot struct {
	RoomID       string              `json:"roomId"`
	Width        int                 `json:"width"`
	Height       int                 `json:"height"`
	Tick         uint64              `json:"tick"`
	LastModified time.Time           `json:"lastModified"`
	Nations      []NationSnapshot    `json:"nations"`
	Claims       []ResourceNodeClaim `json:"claims"`
}

// BuildSnapshot serializes the room's full state for persistence (spec.md
// §4.10 "persistence failure" tolerates a failed write of this value without
// affecting in-memory state).
func (room *Room) BuildSnapshot(now time.Time) RoomSnapshot {
	claims := make([]ResourceNodeClaim, 0, len(room.Claims))
	for _, c := range room.Claims {
		claims = append(claims, *c)
	}

	nations := make([]NationSnapshot, 0, len(room.Registry.Nations()))
	for _, n := range room.Registry.Nations() {
		nations = append(nations, NationSnapshot{
			OwnerID:       n.OwnerID,
			Index:         n.Index,
			Status:        n.Status,
			IsBot:         n.IsBot,
			CapitalCell:   n.CapitalCell,
			Cities:        n.Cities,
			Population:    n.Population,
			MaxPopulation: n.MaxPopulation,
			Resources:     n.Resources,
			Territory:     n.FullTerritoryView(),
			Attack:        n.Orders.Attack,
			Defend:        n.Orders.Defend,
		})
	}
	return RoomSnapshot{
		RoomID:       room.ID,
		Width:        room.Map.Width,
		Height:       room.Map.Height,
		Tick:         room.Tick,
		LastModified: now,
		Nations:      nations,
		Claims:       claims,
	}
}
