package hex

import "testing"

func TestIndexRoundTrip(t *testing.T) {
	for i := 0; i < Cells; i++ {
		c := FromIndex(i)
		if !c.Valid() {
			t.Fatalf("FromIndex(%d) = %v, not on board", i, c)
		}
		if (c.X+c.Y)%2 != 0 {
			t.Fatalf("FromIndex(%d) = %v, x+y is odd", i, c)
		}
		got, ok := c.Index()
		if !ok || got != i {
			t.Fatalf("Index(%v) = %d, %v, want %d, true", c, got, ok, i)
		}
	}
}

func TestIndexOffBoard(t *testing.T) {
	cases := []Coordinate{
		{X: -2, Y: 0},
		{X: 16, Y: 0},
		{X: 0, Y: -1},
		{X: 1, Y: 8},
		{X: 17, Y: 7},
		{X: 1, Y: 0}, // ill-formed: x+y odd
		{X: 2, Y: 1},
	}
	for _, c := range cases {
		if c.Valid() {
			t.Errorf("Valid(%v) = true, want false", c)
		}
		if _, ok := c.Index(); ok {
			t.Errorf("Index(%v) ok = true, want false", c)
		}
	}
}

func TestNeighbor(t *testing.T) {
	c := Coordinate{X: 4, Y: 2}
	want := map[Direction]Coordinate{
		Right:     {X: 6, Y: 2},
		DownRight: {X: 5, Y: 3},
		DownLeft:  {X: 3, Y: 3},
		Left:      {X: 2, Y: 2},
		UpLeft:    {X: 3, Y: 1},
		UpRight:   {X: 5, Y: 1},
	}
	for d, w := range want {
		if got := c.Neighbor(d); got != w {
			t.Errorf("Neighbor(%v, %v) = %v, want %v", c, d, got, w)
		}
	}
}

func TestNeighborsKeepParity(t *testing.T) {
	for i := 0; i < Cells; i++ {
		c := FromIndex(i)
		for _, n := range c.Neighbors() {
			if (n.X+n.Y)%2 != 0 {
				t.Fatalf("neighbor %v of %v has odd x+y", n, c)
			}
		}
	}
}

func TestRay(t *testing.T) {
	cases := []struct {
		from Coordinate
		dir  Direction
		want []Coordinate
	}{
		{
			from: Coordinate{X: 0, Y: 0},
			dir:  Right,
			want: []Coordinate{
				{2, 0}, {4, 0}, {6, 0}, {8, 0}, {10, 0}, {12, 0}, {14, 0},
			},
		},
		{
			from: Coordinate{X: 0, Y: 0},
			dir:  Left,
			want: []Coordinate{},
		},
		{
			from: Coordinate{X: 0, Y: 0},
			dir:  DownRight,
			want: []Coordinate{
				{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}, {6, 6}, {7, 7},
			},
		},
		{
			from: Coordinate{X: 13, Y: 5},
			dir:  UpRight,
			want: []Coordinate{{14, 4}, {15, 3}},
		},
	}
	for _, tc := range cases {
		got := tc.from.Ray(tc.dir)
		if len(got) != len(tc.want) {
			t.Errorf("Ray(%v, %v) = %v, want %v", tc.from, tc.dir, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("Ray(%v, %v)[%d] = %v, want %v", tc.from, tc.dir, i, got[i], tc.want[i])
			}
		}
	}
}

func TestRayStaysOnBoard(t *testing.T) {
	for i := 0; i < Cells; i++ {
		c := FromIndex(i)
		for d := range Directions {
			for _, step := range c.Ray(Direction(d)) {
				if !step.Valid() {
					t.Fatalf("Ray(%v, %v) contains off-board %v", c, Direction(d), step)
				}
			}
		}
	}
}

func TestDistance(t *testing.T) {
	c := Coordinate{X: 5, Y: 3}
	for d, v := range Directions {
		if got := c.Distance(c.Add(v)); got != 1 {
			t.Errorf("Distance to %v neighbor = %d, want 1", Direction(d), got)
		}
		if got := c.Distance(c.Add(v.Mul(3))); got != 3 {
			t.Errorf("Distance along 3x %v = %d, want 3", Direction(d), got)
		}
	}
	cases := []struct {
		a, b Coordinate
		want int
	}{
		{Coordinate{0, 0}, Coordinate{0, 0}, 0},
		{Coordinate{0, 0}, Coordinate{14, 0}, 7},
		{Coordinate{0, 0}, Coordinate{7, 7}, 7},
		{Coordinate{2, 0}, Coordinate{1, 3}, 3},
	}
	for _, tc := range cases {
		if got := tc.a.Distance(tc.b); got != tc.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
