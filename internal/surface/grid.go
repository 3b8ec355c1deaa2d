package surface

// GridPosition lays out a linear control index on a grid that wraps
// every columns cells
func GridPosition(index, columns int) (col, row int) {
	return index % columns, index / columns
}

// AssignSequential returns the MIDI number for the control at index in a
// block starting at base
func AssignSequential(base, index int) uint8 {
	return uint8(base + index)
}
