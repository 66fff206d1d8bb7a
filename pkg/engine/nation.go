package engine

import "fmt"

// NationStatus is the lifecycle state of a nation.
type NationStatus string

const (
	StatusFounding NationStatus = "founding"
	StatusActive   NationStatus = "active"
	StatusDefeated NationStatus = "defeated"
	StatusWinner   NationStatus = "winner"
)

// CityType classifies a structure a nation has built.
type CityType string

const (
	CityCapital    CityType = "capital"
	CityTown       CityType = "town"
	CityTower      CityType = "tower"
	CityFarm       CityType = "farm"
	CityMine       CityType = "mine"
	CityStable     CityType = "stable"
	CityLumberMill CityType = "lumber_mill"
	CityWorkshop   CityType = "workshop"
	CityFort       CityType = "fort"
)

// City is one structure a nation owns.
type City struct {
	Coord Coord
	Type  CityType
	Name  string
}

// ResourceBundle is a nation's stock of the five tradeable resources.
type ResourceBundle struct {
	Food, Wood, Stone, Iron, Gold float64
}

// ArrowOrders holds at most one live attack arrow and one live defend arrow.
type ArrowOrders struct {
	Attack *Arrow
	Defend *Arrow
}

// TerritoryDelta is the per-nation outbound add/sub coordinate streams,
// published at end of tick then cleared (spec.md §4.9, §6).
type TerritoryDelta struct {
	Add []Coord
	Sub []Coord
}

func (d *TerritoryDelta) reset() {
	d.Add = d.Add[:0]
	d.Sub = d.Sub[:0]
}

// Nation is one player's (or bot's) standing in a room.
type Nation struct {
	OwnerID string
	Index   uint16

	Status NationStatus
	IsBot  bool

	CapitalCell Coord
	Cities      []City

	Population    float64
	MaxPopulation float64
	Resources     ResourceBundle

	// Bonus is the resource-node bonus bundle recomputed once per tick from
	// the previous tick's claim resolution (spec.md §4.7); it feeds both the
	// growth formula (C2) and the arrow cost formula (C5).
	Bonus ResourceBonusBundle

	Orders ArrowOrders

	// HasDrawnArrow latches true the first time this nation pays for or
	// receives a free arrow, so pricing.FirstArrowFree can only ever waive
	// the cost once per nation (spec.md §6 arrowCosts.firstArrowFree) rather
	// than every time the nation happens to have no live orders.
	HasDrawnArrow bool

	outbound TerritoryDelta

	// territoryPercentage is recomputed once per tick by EncodeDeltas as
	// 100 * owned / totalClaimable, for the outbound payload. CheckWin does
	// not read it: it computes the same ratio itself from TerritorySize,
	// before EncodeDeltas runs.
	territoryPercentage float64

	// territorySet and borderSet are rebuildable caches, not authoritative
	// state; OwnershipMatrix is the single source of truth for ownership.
	territorySet map[Coord]struct{}
	borderSet    map[Coord]struct{}
}

// TerritoryPercentage returns the nation's share of claimable map cells, as
// of the last EncodeDeltas call.
func (n *Nation) TerritoryPercentage() float64 {
	return n.territoryPercentage
}

// TerritorySize returns the number of cells this nation currently owns.
func (n *Nation) TerritorySize() int {
	return len(n.territorySet)
}

// Owns reports whether the nation currently owns c.
func (n *Nation) Owns(c Coord) bool {
	_, ok := n.territorySet[c]
	return ok
}

// IsBorder reports whether c is currently in this nation's frontier cache.
func (n *Nation) IsBorder(c Coord) bool {
	_, ok := n.borderSet[c]
	return ok
}

// BorderCount returns the size of the frontier cache.
func (n *Nation) BorderCount() int {
	return len(n.borderSet)
}

// Capital returns the nation's capital city record, or nil if it has none
// (should only happen transiently, between capital loss and succession/defeat).
func (n *Nation) Capital() *City {
	for i := range n.Cities {
		if n.Cities[i].Type == CityCapital {
			return &n.Cities[i]
		}
	}
	return nil
}

// FullTerritoryView returns every cell this nation owns, for the "new client
// connect" case in spec.md §6 where a full view is sent instead of a delta.
func (n *Nation) FullTerritoryView() []Coord {
	out := make([]Coord, 0, len(n.territorySet))
	for c := range n.territorySet {
		out = append(out, c)
	}
	return out
}

// Registry assigns stable dense indices to external owner ids and owns every
// Nation exclusively: all mutation of nation territory goes through
// AddCell/RemoveCell, which keep OwnershipMatrix, territorySet, and
// borderSet in lockstep (spec.md §4.2, design notes §9).
type Registry struct {
	matrix *OwnershipMatrix
	byID   map[string]*Nation
	byIdx  []*Nation // indices are never reused; a defeated nation keeps its slot

	// lostCellThisTick tracks which nations had RemoveCell called on them
	// since the last DrainLostCell, so the tick driver can run an
	// off-schedule connectivity audit for them (spec.md §4.4 "whenever a
	// nation lost any cell that tick").
	lostCellThisTick map[*Nation]bool
}

// NewRegistry creates an empty Registry bound to the given matrix.
func NewRegistry(matrix *OwnershipMatrix) *Registry {
	return &Registry{
		matrix:           matrix,
		byID:             make(map[string]*Nation),
		lostCellThisTick: make(map[*Nation]bool),
	}
}

// DrainLostCell returns the set of nations that lost at least one cell since
// the last call, and resets the tracker.
func (r *Registry) DrainLostCell() map[*Nation]bool {
	drained := r.lostCellThisTick
	r.lostCellThisTick = make(map[*Nation]bool)
	return drained
}

// Nations returns every registered nation, including defeated ones, in
// index order.
func (r *Registry) Nations() []*Nation {
	return r.byIdx
}

// Get looks up a nation by its external owner id.
func (r *Registry) Get(ownerID string) (*Nation, bool) {
	n, ok := r.byID[ownerID]
	return n, ok
}

// ByIndex looks up a nation by its dense internal index.
func (r *Registry) ByIndex(idx uint16) *Nation {
	if int(idx) >= len(r.byIdx) {
		return nil
	}
	return r.byIdx[idx]
}

// Register assigns a new stable index to an external owner id and returns
// the new Nation in "founding" status with no territory. It is an error to
// register the same owner id twice.
func (r *Registry) Register(ownerID string, isBot bool) (*Nation, error) {
	if _, exists := r.byID[ownerID]; exists {
		return nil, fmt.Errorf("engine: owner %q already registered", ownerID)
	}
	n := &Nation{
		OwnerID:      ownerID,
		Index:        uint16(len(r.byIdx)),
		Status:       StatusFounding,
		IsBot:        isBot,
		territorySet: make(map[Coord]struct{}),
		borderSet:    make(map[Coord]struct{}),
	}
	r.byID[ownerID] = n
	r.byIdx = append(r.byIdx, n)
	return n, nil
}

// AddCell assigns (x,y) to n: updates the ownership matrix, the territory
// set, and incrementally maintains the border cache. The cell must not
// already belong to n (callers remove a defender's claim first, per
// spec.md §4.5's conversion step). Outbound deltas are not tracked here —
// EncodeDeltas derives them authoritatively from the matrix diff at tick
// end (spec.md §4.9), so they can never drift from what AddCell/RemoveCell
// actually did to the matrix.
func (r *Registry) AddCell(n *Nation, x, y int, m *Map) {
	c := Coord{X: x, Y: y}
	r.matrix.Set(x, y, n.Index)
	n.territorySet[c] = struct{}{}
	r.updateBorderOnAdd(n, c, m)
}

// RemoveCell strips n's ownership of (x,y): updates the ownership matrix,
// the territory set, and the border cache.
func (r *Registry) RemoveCell(n *Nation, x, y int, m *Map) {
	c := Coord{X: x, Y: y}
	r.matrix.Set(x, y, Unowned)
	delete(n.territorySet, c)
	delete(n.borderSet, c)
	r.updateBorderOnRemove(n, c, m)
	r.lostCellThisTick[n] = true
}
