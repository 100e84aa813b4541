// Package game encapsulates the mechanics of the dice-subtraction game:
// two players alternately subtract a face value 1-6 from a shared total,
// and may not pick the face just shown or its complement to 7. Whoever
// drives the total to zero or below wins.
package game

import (
	"errors"
	"fmt"
)

const (
	// MinFace and MaxFace bound the faces of a die.
	MinFace = 1
	MaxFace = 6
	// FaceComplement is the sum of opposite faces of a die.
	FaceComplement = 7

	// MaxStartTotal is the largest starting total the hash lanes can hold.
	MaxStartTotal = 127
	// MinReachableTotal is the smallest total any move can leave behind
	// (a 6 subtracted from a total of 1).
	MinReachableTotal = 1 - MaxFace
)

var (
	ErrInvalidTotal  = errors.New("starting total out of range")
	ErrInvalidFace   = errors.New("face must be between 1 and 6")
	ErrInvalidPlayer = errors.New("player must be -1 or +1")
	ErrIllegalMove   = errors.New("illegal move")
	ErrGameOver      = errors.New("game is over")
)

// Player is one of the two sides, or Nobody.
type Player int8

const (
	Minus  Player = -1
	Nobody Player = 0
	Plus   Player = 1
)

// Opponent returns the other side.
func (p Player) Opponent() Player {
	return -p
}

func (p Player) String() string {
	switch p {
	case Plus:
		return "+1"
	case Minus:
		return "-1"
	}
	return "0"
}

// ParsePlayer accepts +1, 1 or -1.
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "+1", "1", "+":
		return Plus, nil
	case "-1", "-":
		return Minus, nil
	}
	return Nobody, fmt.Errorf("%w: %q", ErrInvalidPlayer, s)
}

// Position is a complete game state. It is small and always passed by
// value.
type Position struct {
	// LastMove is the face that produced this position. For a starting
	// position it is the face shown before anybody has moved.
	LastMove uint8
	// Total is the amount still to subtract.
	Total int
	// ToMove is the side to play next.
	ToMove Player
	// Winner is nonzero only once Total <= 0.
	Winner Player
}

// NewPosition validates and builds a starting position.
func NewPosition(total int, lastMove uint8, toMove Player) (Position, error) {
	if total < 1 || total > MaxStartTotal {
		return Position{}, fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidTotal, total, MaxStartTotal)
	}
	if lastMove < MinFace || lastMove > MaxFace {
		return Position{}, fmt.Errorf("%w: %d", ErrInvalidFace, lastMove)
	}
	if toMove != Plus && toMove != Minus {
		return Position{}, fmt.Errorf("%w: %d", ErrInvalidPlayer, toMove)
	}
	return Position{LastMove: lastMove, Total: total, ToMove: toMove}, nil
}

// Terminal reports whether the game is over.
func (p Position) Terminal() bool {
	return p.Total <= 0
}

// TerminalValue is the recorded winner at a terminal position and 0
// everywhere else.
func (p Position) TerminalValue() int8 {
	if !p.Terminal() {
		return 0
	}
	return int8(p.Winner)
}

// Flip returns the same position with the other side to move.
func (p Position) Flip() Position {
	p.ToMove = p.ToMove.Opponent()
	p.Winner = p.Winner.Opponent()
	return p
}

// Move is the checked version of PerformMove.
func (p Position) Move(face uint8) (Position, error) {
	if p.Terminal() {
		return p, ErrGameOver
	}
	if !IsLegal(p.LastMove, face) {
		return p, fmt.Errorf("%w: %d after %d", ErrIllegalMove, face, p.LastMove)
	}
	return PerformMove(p, face), nil
}

func (p Position) String() string {
	if p.Terminal() {
		return fmt.Sprintf("<last: %d total: %d winner: %v>", p.LastMove, p.Total, p.Winner)
	}
	return fmt.Sprintf("<last: %d total: %d to-move: %v>", p.LastMove, p.Total, p.ToMove)
}

// PerformMove subtracts move from the total and hands the turn over. The
// player who takes the total to zero or below is recorded as the winner.
// No legality checks are done here; the search calls it on generated moves
// only.
func PerformMove(p Position, move uint8) Position {
	mover := p.ToMove
	child := Position{
		LastMove: move,
		Total:    p.Total - int(move),
		ToMove:   mover.Opponent(),
	}
	if child.Total <= 0 {
		child.Winner = mover
	}
	return child
}
