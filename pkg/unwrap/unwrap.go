package unwrap

const (
	counterMax = 0xFFFFFFFF
	wrapAmount = counterMax + 1

	// WrapThreshold is half the counter range. A jump larger than this between two consecutive readings is taken
	// as a wrap rather than as movement of the counter.
	WrapThreshold = counterMax / 2
)

// Unwrapper extends a 32-bit wrapping device counter into an unbounded timestamp.
//
// Process must see every raw reading of one stream exactly once, in arrival order. Feeding readings out of order or
// from two streams into the same Unwrapper silently corrupts the wrap count.
type Unwrapper struct {
	hasPrevious bool   // true once the first reading has been seen
	previous    uint32 // the last raw reading
	wrapCount   int64  // number of wraps seen so far, never negative
}

// Process returns the unwrapped value of raw. The first reading after creation or Reset is returned unchanged.
func (u *Unwrapper) Process(raw uint32) int64 {
	if !u.hasPrevious {
		u.hasPrevious = true
		u.previous = raw
		u.wrapCount = 0
		return int64(raw)
	}

	dt := int64(raw) - int64(u.previous)
	if dt < -WrapThreshold {
		u.wrapCount++
	} else if dt > WrapThreshold {
		// the counter oscillated back across a wrap that was already counted
		u.wrapCount--
		if u.wrapCount < 0 {
			u.wrapCount = 0
		}
	}

	u.previous = raw
	return int64(raw) + u.wrapCount*wrapAmount
}

// Reset forgets the previous reading and the wrap count.
func (u *Unwrapper) Reset() {
	*u = Unwrapper{}
}

// WrapCount returns the number of wraps currently applied.
func (u *Unwrapper) WrapCount() int64 {
	return u.wrapCount
}
