package negamax

import (
	"fmt"
	"strings"

	"github.com/domino14/diceflip/game"
	"github.com/domino14/diceflip/perfecthash"
)

// thanks Wikipedia:
/*
function negamax(node, depth, α, β, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node

    childNodes := generateMoves(node)
    value := −∞
    foreach child in childNodes do
        value := max(value, −negamax(child, depth − 1, −β, −α, −color))
        α := max(α, value)
        if α ≥ β then
            break (* cut-off *)
    return value
**/
// Our version differs: α and β are handed unchanged to every child and
// are only ever narrowed by bounds read from the table. Entries are keyed
// by the child and hold the child's value as seen from the parent.

func (s *Solver) negamax(p game.Position, depth int, α, β int8) int8 {
	if depth == 0 || p.Terminal() {
		return int8(p.ToMove) * p.TerminalValue()
	}
	s.nodes.Add(1)

	var indent string
	if s.logStream != nil {
		indent = strings.Repeat(" ", 2*max(0, s.rootDepth-depth))
		fmt.Fprintf(s.logStream, "  %vplays:\n", indent)
	}
	bestValue := MinScore
	for _, child := range game.Children(p) {
		if s.logStream != nil {
			fmt.Fprintf(s.logStream, "  %v- play: %d\n", indent, child.LastMove)
		}
		key := perfecthash.Hash(child)
		var value int8
		found := false

		if s.transpositionTableOptim {
			ttEntry := s.ttable.lookup(key)
			if ttEntry.valid() && int(ttEntry.depth()) >= depth-1 {
				score := ttEntry.score()
				switch ttEntry.flag() {
				case TTExact:
					value = score
					found = true
				case TTLower:
					α = max(α, score)
				case TTUpper:
					β = min(β, score)
				}
				if !found && α >= β {
					return max(bestValue, score)
				}
			}
		}

		if found {
			if s.logStream != nil {
				fmt.Fprintf(s.logStream, "  %v  tt-value: %v\n", indent, value)
			}
		} else {
			value = -s.negamax(child, depth-1, α, β)
			if s.logStream != nil {
				fmt.Fprintf(s.logStream, "  %v  value: %v\n", indent, value)
			}
			if s.transpositionTableOptim {
				var flag uint8
				if value <= α {
					flag = TTUpper
				} else if value >= β {
					flag = TTLower
				} else {
					flag = TTExact
				}
				s.ttable.store(key, newTableEntry(depth-1, flag, value))
			}
		}
		bestValue = max(bestValue, value)
	}
	return bestValue
}
