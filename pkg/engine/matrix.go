package engine

// Unowned is the sentinel value for a cell with no claimant.
const Unowned uint16 = 0xFFFF

// OwnershipMatrix is the single source of truth for "who owns what": two
// dense row-major u16 arrays, current and the prior-tick snapshot used for
// diffing. No other component stores authoritative ownership; every read or
// write elsewhere goes through it (in practice, through Registry.AddCell/
// RemoveCell, the only sanctioned mutators).
type OwnershipMatrix struct {
	width, height int
	current       []uint16
	previous      []uint16
}

// NewOwnershipMatrix allocates a width x height matrix with every cell unowned.
func NewOwnershipMatrix(width, height int) *OwnershipMatrix {
	size := width * height
	m := &OwnershipMatrix{
		width:    width,
		height:   height,
		current:  make([]uint16, size),
		previous: make([]uint16, size),
	}
	for i := range m.current {
		m.current[i] = Unowned
		m.previous[i] = Unowned
	}
	return m
}

// Get returns the owner index at (x,y), or Unowned.
func (m *OwnershipMatrix) Get(x, y int) uint16 {
	return m.current[y*m.width+x]
}

// Set assigns the owner index at (x,y). O(1).
func (m *OwnershipMatrix) Set(x, y int, nationIdx uint16) {
	m.current[y*m.width+x] = nationIdx
}

// OwnerAt returns the owner at a precomputed row-major key (y*width+x).
func (m *OwnershipMatrix) OwnerAt(key int) uint16 {
	return m.current[key]
}

// PreviousOwnerAt returns the prior-tick owner at a precomputed key.
func (m *OwnershipMatrix) PreviousOwnerAt(key int) uint16 {
	return m.previous[key]
}

// Len returns width*height, the number of cells backing the matrix.
func (m *OwnershipMatrix) Len() int {
	return len(m.current)
}

// Snapshot copies current into previous. O(W*H); called once per tick after
// all mutation for that tick has completed.
func (m *OwnershipMatrix) Snapshot() {
	copy(m.previous, m.current)
}
