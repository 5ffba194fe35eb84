package lz77

// ring is the circular history window.  head is the slot holding the most
// recent byte; older bytes live at increasing offsets from head.
type ring struct {
	data [WindowSize]byte
	head int
}

func (r *ring) reset() {
	for i := range r.data {
		r.data[i] = 0
	}
	r.head = 0
}

// push moves head one slot toward the future and stores ch there.
func (r *ring) push(ch byte) {
	r.advance()
	r.data[r.head] = ch
}

// advance moves head one slot toward the future without storing anything,
// re-exposing a byte that an earlier rewind handed back.
func (r *ring) advance() {
	r.head = (r.head + WindowSize - 1) % WindowSize
}

// rewind moves head n slots into the past.
func (r *ring) rewind(n int) {
	r.head = (r.head + n) % WindowSize
}

// back returns the byte n positions older than the most recent one.
func (r *ring) back(n int) byte {
	return r.data[(r.head+n)%WindowSize]
}

// at returns the byte stored in absolute slot pos.
func (r *ring) at(pos int) byte {
	return r.data[pos%WindowSize]
}

// distance returns how many positions older than head absolute slot pos is.
func (r *ring) distance(pos int) int {
	return (pos + WindowSize - r.head) % WindowSize
}
