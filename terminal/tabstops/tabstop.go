package tabstops

import "math/bits"

// DefaultInterval is the distance between the initial tabstops.
const DefaultInterval = 8

const unitBits = 64

// Tabstops tracks tabstop locations, one bit per column.
type Tabstops struct {
	cols  int
	units []uint64
}

func entry(col int) int { return col / unitBits }
func index(col int) int { return col % unitBits }

// NewTabstops creates tabstops for cols columns, one every interval
// columns. An interval of zero sets none.
func NewTabstops(cols, interval int) *Tabstops {
	t := &Tabstops{}
	t.Resize(cols)
	t.Reset(interval)
	return t
}

// Set sets the tabstop at a certain column (0-indexed).
func (t *Tabstops) Set(col int) {
	if col < 0 || col >= t.cols {
		return
	}
	t.units[entry(col)] |= 1 << index(col)
}

// Unset unsets the tabstop at a certain column (0-indexed).
func (t *Tabstops) Unset(col int) {
	if col < 0 || col >= t.cols {
		return
	}
	t.units[entry(col)] &^= 1 << index(col)
}

// Get returns true if a tabstop is set at the given column.
func (t *Tabstops) Get(col int) bool {
	if col < 0 || col >= t.cols {
		return false
	}
	return t.units[entry(col)]&(1<<index(col)) != 0
}

// Next returns the first tabstop right of col, or the last column when
// there is none.
func (t *Tabstops) Next(col int) int {
	for i := max(col+1, 0); i < t.cols; {
		unit := t.units[entry(i)] >> index(i)
		if unit != 0 {
			return min(i+bits.TrailingZeros64(unit), t.cols-1)
		}
		i = (entry(i) + 1) * unitBits
	}
	return t.cols - 1
}

// Resize changes the number of columns. Existing stops are kept; stops
// beyond the new width are dropped.
func (t *Tabstops) Resize(cols int) {
	cols = max(cols, 0)
	need := (cols + unitBits - 1) / unitBits
	if need > len(t.units) {
		t.units = append(t.units, make([]uint64, need-len(t.units))...)
	}
	for c := cols; c < t.cols; c++ {
		t.Unset(c)
	}
	t.cols = cols
}

// Reset unsets all tabstops and then sets initial tabstops at the given interval.
func (t *Tabstops) Reset(interval int) {
	clear(t.units)
	if interval > 0 {
		for i := interval; i < t.cols-1; i += interval {
			t.Set(i)
		}
	}
}
