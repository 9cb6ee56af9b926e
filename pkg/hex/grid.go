package hex

// Board dimensions. The grid is Height rows of Width cells; in doubled
// space row y spans x values y&1, y&1+2, ... up to just below 2*Width.
const (
	Width  = 8
	Height = 8
	Cells  = Width * Height
)

// Valid reports whether the coordinate names a real board cell: within
// bounds and well-formed, i.e. x+y even, since the doubled x of a cell
// always shares its row's parity.
func (c Coordinate) Valid() bool {
	return c.Y >= 0 && c.Y < Height && c.X >= 0 && c.X < 2*Width && (c.X+c.Y)%2 == 0
}

// Index returns the bit index of the coordinate in a 64-bit board mask and
// whether the coordinate is on the board. Cells are numbered row by row,
// left to right; the doubled x halves back to a column for either row
// parity.
func (c Coordinate) Index() (int, bool) {
	if !c.Valid() {
		return 0, false
	}
	return c.Y*Width + c.X/2, true
}

// FromIndex is the inverse of Index for i in [0, Cells). Out-of-range
// indices yield a coordinate that is not Valid.
func FromIndex(i int) Coordinate {
	y := i / Width
	col := i % Width
	return Coordinate{X: 2*col + (y & 1), Y: y}
}

// Ray returns the coordinates encountered walking from c in direction d,
// starting at the adjacent cell and ending at the board edge. Stepping off
// the board terminates the walk.
func (c Coordinate) Ray(d Direction) []Coordinate {
	res := make([]Coordinate, 0, Width-1)
	for n := c.Neighbor(d); n.Valid(); n = n.Neighbor(d) {
		res = append(res, n)
	}
	return res
}
