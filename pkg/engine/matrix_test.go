package engine

import "testing"

func TestNewOwnershipMatrixStartsUnowned(t *testing.T) {
	m := NewOwnershipMatrix(4, 3)
	for i := 0; i < m.Len(); i++ {
		if m.OwnerAt(i) != Unowned {
			t.Fatalf("cell %d = %d, want Unowned", i, m.OwnerAt(i))
		}
	}
}

func TestOwnershipMatrixSetAndGet(t *testing.T) {
	m := NewOwnershipMatrix(4, 3)
	m.Set(2, 1, 7)
	if got := m.Get(2, 1); got != 7 {
		t.Errorf("Get(2,1) = %d, want 7", got)
	}
	if got := m.Get(0, 0); got != Unowned {
		t.Errorf("Get(0,0) = %d, want Unowned", got)
	}
}

func TestOwnershipMatrixSnapshotFreezesPrevious(t *testing.T) {
	m := NewOwnershipMatrix(2, 2)
	m.Set(0, 0, 1)
	m.Snapshot()

	if got := m.PreviousOwnerAt(m.width*0 + 0); got != 1 {
		t.Errorf("PreviousOwnerAt after snapshot = %d, want 1", got)
	}

	m.Set(0, 0, 2)
	if got := m.PreviousOwnerAt(0); got != 1 {
		t.Errorf("PreviousOwnerAt after further mutation = %d, want 1 (unchanged)", got)
	}
	if got := m.OwnerAt(0); got != 2 {
		t.Errorf("OwnerAt after further mutation = %d, want 2", got)
	}
}
