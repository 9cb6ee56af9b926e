package game

import (
	"math/rand"

	"github.com/FalconsSky/penguins/pkg/hex"
)

// fishWeights drives the starting fish distribution; entry i is the weight
// of dealing i+1 fish. Half the cells carry a single fish so placements
// stay plentiful.
var fishWeights = [4]int{10, 5, 3, 2}

// minSingleFishPairs is the lower bound of single-fish cell pairs per
// deal; after mirroring this guarantees both teams can finish placement.
const minSingleFishPairs = PenguinsPerTeam

// RandomBoard deals a fresh starting board from r: every cell holds one to
// four fish and the layout repeats under 180 degree rotation, so neither
// starting position is favored. Identical sources deal identical boards.
func RandomBoard(r *rand.Rand) Board {
	total := 0
	for _, w := range fishWeights {
		total += w
	}

	var fish [hex.Cells / 2]int
	singles := 0
	for i := range fish {
		roll := r.Intn(total)
		n := 0
		for roll >= fishWeights[n] {
			roll -= fishWeights[n]
			n++
		}
		fish[i] = n + 1
		if n == 0 {
			singles++
		}
	}

	// Top up single-fish cells when the deal came out short.
	for singles < minSingleFishPairs {
		i := r.Intn(len(fish))
		if fish[i] != 1 {
			fish[i] = 1
			singles++
		}
	}

	var b Board
	for i, n := range fish {
		b = b.setFish(i, n).setFish(hex.Cells-1-i, n)
	}
	return b
}

// setFish puts n fish on cell i of an otherwise untouched cell.
func (b Board) setFish(i, n int) Board {
	switch n {
	case 1:
		b.Fish1 = b.Fish1.Set(i)
	case 2:
		b.Fish2 = b.Fish2.Set(i)
	case 3:
		b.Fish3 = b.Fish3.Set(i)
	case 4:
		b.Fish4 = b.Fish4.Set(i)
	}
	return b
}
