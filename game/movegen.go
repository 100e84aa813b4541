package game

import "github.com/samber/lo"

// NumLegalMoves is the number of legal moves from any non-terminal
// position: six faces minus the last one and its complement.
const NumLegalMoves = 4

var faces = []uint8{1, 2, 3, 4, 5, 6}

// legalMoves is indexed by the last move. Index 0 is unused.
var legalMoves [MaxFace + 1][NumLegalMoves]uint8

func init() {
	for last := uint8(MinFace); last <= MaxFace; last++ {
		allowed := lo.Filter(faces, func(f uint8, _ int) bool {
			return f != last && f != FaceComplement-last
		})
		if len(allowed) != NumLegalMoves {
			panic("legal move table must have exactly four moves per face")
		}
		copy(legalMoves[last][:], allowed)
	}
}

// LegalMoves returns the four faces that may follow last, in ascending
// order. This order is the search's enumeration order.
func LegalMoves(last uint8) [NumLegalMoves]uint8 {
	return legalMoves[last]
}

// IsLegal reports whether face may be played after last.
func IsLegal(last, face uint8) bool {
	if face < MinFace || face > MaxFace {
		return false
	}
	return face != last && face != FaceComplement-last
}

// Children returns the four positions reachable from p, in LegalMoves
// order. It must not be called on a terminal position.
func Children(p Position) [NumLegalMoves]Position {
	var children [NumLegalMoves]Position
	for i, m := range legalMoves[p.LastMove] {
		children[i] = PerformMove(p, m)
	}
	return children
}
