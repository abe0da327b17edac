package pattern

// rngDraw deterministically derives a float64 in [0, 1) from the query
// seed, the drawing node's identity, the integer cycle, and a draw index
// within that cycle — never from any node-local mutable state (spec.md
// §4.1: "random draws take the form rng(seed, nodeId, cycleInt,
// drawIndex)"). Two patterns built with the same NodeID assignment and
// queried with the same seed always draw the same sequence.
//
// The mixing step is splitmix64, the same fast-avalanche integer hash
// family the teacher's noise generators use in LFSR form (audio_chip.go);
// here it replaces a stateful shift register with a pure function of its
// inputs, since query purity forbids a pattern node from owning state.
func rngDraw(seed uint64, node NodeID, cycle int64, drawIndex uint64) float64 {
	x := seed
	x ^= uint64(node) * 0x9E3779B97F4A7C15
	x ^= uint64(cycle) * 0xBF58476D1CE4E5B9
	x ^= drawIndex * 0x94D049BB133111EB
	x = splitmix64(x)
	// Top 53 bits give a uniform float64 in [0, 1).
	return float64(x>>11) / float64(1<<53)
}

func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// rngChoice picks an index in [0, n) deterministically from the same
// inputs as rngDraw.
func rngChoice(seed uint64, node NodeID, cycle int64, drawIndex uint64, n int) int {
	if n <= 0 {
		return 0
	}
	f := rngDraw(seed, node, cycle, drawIndex)
	idx := int(f * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}
