package game

import (
	"math/bits"

	"github.com/FalconsSky/penguins/pkg/hex"
)

// Bitboard is a 64-bit cell mask over the board, one bit per cell in hex
// index order (bit 0 is the top-left cell).
type Bitboard uint64

// BB returns a mask with only the bit for index i set.
func BB(i int) Bitboard { return 1 << uint(i) }

// Has reports whether bit i is set.
func (b Bitboard) Has(i int) bool { return b&BB(i) != 0 }

// Set returns b with bit i set.
func (b Bitboard) Set(i int) Bitboard { return b | BB(i) }

// Clear returns b with bit i cleared.
func (b Bitboard) Clear(i int) Bitboard { return b &^ BB(i) }

// Count returns the number of set bits.
func (b Bitboard) Count() int { return bits.OnesCount64(uint64(b)) }

// Coordinates decodes the mask into board coordinates in ascending bit
// index order.
func (b Bitboard) Coordinates() []hex.Coordinate {
	res := make([]hex.Coordinate, 0, b.Count())
	for m := b; m != 0; m &= m - 1 {
		res = append(res, hex.FromIndex(bits.TrailingZeros64(uint64(m))))
	}
	return res
}

// MaskOf encodes coordinates back into a mask, ignoring any that lie off
// the board.
func MaskOf(coords ...hex.Coordinate) Bitboard {
	var b Bitboard
	for _, c := range coords {
		if i, ok := c.Index(); ok {
			b = b.Set(i)
		}
	}
	return b
}
