// Package hex implements the double-width hex grid the game is played on:
// an 8x8 field of pointy-top hexes where odd rows are shifted half a cell to
// the right. Coordinates store the doubled x, so x+y is always even for a
// well-formed coordinate and every on-board coordinate maps to one bit of a
// 64-bit mask.
package hex

import "fmt"

// Coordinate is a position in double-width hex space.
type Coordinate struct {
	X int
	Y int
}

// Vector is a displacement in double-width hex space.
type Vector struct {
	DX int
	DY int
}

// Direction is one of the six hex neighbor directions.
type Direction uint8

const (
	Right Direction = iota
	DownRight
	DownLeft
	Left
	UpLeft
	UpRight
)

// Directions lists the six neighbor vectors in clockwise order starting at
// Right. In doubled space a horizontal step moves x by 2, a diagonal step
// moves x by 1 and y by 1.
var Directions = [6]Vector{
	{+2, 0},  // Right
	{+1, +1}, // DownRight
	{-1, +1}, // DownLeft
	{-2, 0},  // Left
	{-1, -1}, // UpLeft
	{+1, -1}, // UpRight
}

var directionNames = [6]string{
	"right", "down-right", "down-left", "left", "up-left", "up-right",
}

// Vector returns the displacement for one step in direction d.
func (d Direction) Vector() Vector { return Directions[d] }

func (d Direction) String() string {
	if int(d) >= len(directionNames) {
		return "invalid"
	}
	return directionNames[d]
}

// Mul scales a vector by k.
func (v Vector) Mul(k int) Vector { return Vector{v.DX * k, v.DY * k} }

// Add returns the coordinate displaced by v.
func (c Coordinate) Add(v Vector) Coordinate {
	return Coordinate{c.X + v.DX, c.Y + v.DY}
}

// Neighbor returns the adjacent coordinate in direction d. The result may
// lie off the board.
func (c Coordinate) Neighbor(d Direction) Coordinate {
	return c.Add(Directions[d])
}

// Neighbors returns the six adjacent coordinates in Directions order,
// including any that lie off the board.
func (c Coordinate) Neighbors() []Coordinate {
	res := make([]Coordinate, len(Directions))
	for i, v := range Directions {
		res[i] = c.Add(v)
	}
	return res
}

// Distance returns the hex distance (minimum number of steps) between two
// coordinates.
func (c Coordinate) Distance(o Coordinate) int {
	dx := abs(c.X - o.X)
	dy := abs(c.Y - o.Y)
	if dx <= dy {
		return dy
	}
	return dy + (dx-dy)/2
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
