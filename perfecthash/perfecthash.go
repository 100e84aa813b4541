// Package perfecthash maps every reachable game position to a dense key
// with no collisions. Unlike a zobrist hash there is nothing random here:
// each field of the position gets its own bit lane, so two positions share
// a key only if they are equal.
package perfecthash

import (
	"github.com/domino14/diceflip/game"
)

// Key is a packed position.
type Key uint32

// Lane layout, low bits first:
//
//	bits  0..7   total + TotalBias
//	bit   8      side to move (0 = -1, 1 = +1)
//	bits  9..10  winner + 1
//	bits 11..13  last move
const (
	TotalBits    = 8
	ToMoveBits   = 1
	WinnerBits   = 2
	LastMoveBits = 3

	TotalShift    = 0
	ToMoveShift   = TotalShift + TotalBits
	WinnerShift   = ToMoveShift + ToMoveBits
	LastMoveShift = WinnerShift + WinnerBits

	KeyBits = LastMoveShift + LastMoveBits
	// KeySpace is the number of distinct keys and so the number of table
	// slots. Each lane is only as wide as its field needs, so 14 bits hold
	// every reachable position and a table of 2-byte entries is 32 KiB,
	// where a byte per field would need 2^32 slots.
	KeySpace = 1 << KeyBits

	TotalBias = 1 << (TotalBits - 1)

	totalMask    = 1<<TotalBits - 1
	toMoveMask   = 1<<ToMoveBits - 1
	winnerMask   = 1<<WinnerBits - 1
	lastMoveMask = 1<<LastMoveBits - 1
)

// MinTotal and MaxTotal bound the totals the total lane can hold.
const (
	MinTotal = -TotalBias
	MaxTotal = TotalBias - 1
)

// Hash packs p. It assumes p is reachable (see Fits); out-of-range fields
// would bleed into their neighbours.
func Hash(p game.Position) Key {
	return Key(uint32(p.Total+TotalBias)<<TotalShift |
		uint32((p.ToMove+1)/2)<<ToMoveShift |
		uint32(p.Winner+1)<<WinnerShift |
		uint32(p.LastMove)<<LastMoveShift)
}

// Unhash reverses Hash.
func Unhash(k Key) game.Position {
	return game.Position{
		Total:    int(k>>TotalShift&totalMask) - TotalBias,
		ToMove:   game.Player(int8(k>>ToMoveShift&toMoveMask)*2 - 1),
		Winner:   game.Player(int8(k>>WinnerShift&winnerMask) - 1),
		LastMove: uint8(k >> LastMoveShift & lastMoveMask),
	}
}

// Fits reports whether every field of p is within its lane.
func Fits(p game.Position) bool {
	return p.Total >= MinTotal && p.Total <= MaxTotal &&
		(p.ToMove == game.Plus || p.ToMove == game.Minus) &&
		p.Winner >= game.Minus && p.Winner <= game.Plus &&
		p.LastMove <= lastMoveMask
}
