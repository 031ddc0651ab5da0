package hasher

import "testing"

func TestDeterministic(t *testing.T) {
	var a, b Hasher
	a.Update(1).Update(2).UpdateString("hello")
	b.Update(1).Update(2).UpdateString("hello")
	if a.Sum() != b.Sum() {
		t.Fatalf("equal inputs produced different hashes: %d vs %d", a.Sum(), b.Sum())
	}
}

func TestOrderSensitive(t *testing.T) {
	var a, b Hasher
	a.Update(1).Update(2)
	b.Update(2).Update(1)
	if a.Sum() == b.Sum() {
		t.Fatalf("order-sensitive updates produced the same hash")
	}
}

func TestUpdateShortsOddLength(t *testing.T) {
	var h Hasher
	h.UpdateShorts([]uint16{1, 2, 3})
	if h.Sum() == 0 {
		t.Fatalf("unexpected zero hash")
	}
}
