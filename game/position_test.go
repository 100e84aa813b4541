package game

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestNewPositionValidation(t *testing.T) {
	is := is.New(t)

	p, err := NewPosition(66, 1, Plus)
	is.NoErr(err)
	is.Equal(p, Position{LastMove: 1, Total: 66, ToMove: Plus})
	is.True(!p.Terminal())

	_, err = NewPosition(0, 1, Plus)
	is.True(errors.Is(err, ErrInvalidTotal))
	_, err = NewPosition(MaxStartTotal+1, 1, Plus)
	is.True(errors.Is(err, ErrInvalidTotal))
	_, err = NewPosition(11, 0, Plus)
	is.True(errors.Is(err, ErrInvalidFace))
	_, err = NewPosition(11, 7, Plus)
	is.True(errors.Is(err, ErrInvalidFace))
	_, err = NewPosition(11, 3, Nobody)
	is.True(errors.Is(err, ErrInvalidPlayer))
}

func TestPerformMove(t *testing.T) {
	is := is.New(t)
	p := Position{LastMove: 6, Total: 11, ToMove: Minus}

	c := PerformMove(p, 5)
	is.Equal(c, Position{LastMove: 5, Total: 6, ToMove: Plus})
	is.Equal(c.TerminalValue(), int8(0))

	// Plus takes the total from 6 to 0 and wins.
	c = PerformMove(c, 6)
	is.True(c.Terminal())
	is.Equal(c.Winner, Plus)
	is.Equal(c.ToMove, Minus)
	is.Equal(c.TerminalValue(), int8(1))

	// Overshooting zero also wins.
	c = PerformMove(Position{LastMove: 2, Total: 3, ToMove: Minus}, 6)
	is.Equal(c.Total, -3)
	is.Equal(c.Winner, Minus)
}

func TestCheckedMove(t *testing.T) {
	is := is.New(t)
	p := Position{LastMove: 3, Total: 20, ToMove: Plus}

	_, err := p.Move(3)
	is.True(errors.Is(err, ErrIllegalMove))
	_, err = p.Move(4)
	is.True(errors.Is(err, ErrIllegalMove))
	_, err = p.Move(9)
	is.True(errors.Is(err, ErrIllegalMove))

	c, err := p.Move(6)
	is.NoErr(err)
	is.Equal(c.Total, 14)

	over := Position{LastMove: 2, Total: -1, ToMove: Plus, Winner: Minus}
	_, err = over.Move(1)
	is.True(errors.Is(err, ErrGameOver))
}

func TestFlip(t *testing.T) {
	is := is.New(t)
	p := Position{LastMove: 2, Total: 0, ToMove: Plus, Winner: Minus}
	f := p.Flip()
	is.Equal(f.ToMove, Minus)
	is.Equal(f.Winner, Plus)
	is.Equal(f.Flip(), p)
	// The value from the mover's point of view is unchanged.
	is.Equal(int8(p.ToMove)*p.TerminalValue(), int8(f.ToMove)*f.TerminalValue())
}

func TestParsePlayer(t *testing.T) {
	is := is.New(t)
	for _, s := range []string{"+1", "1", "+"} {
		pl, err := ParsePlayer(s)
		is.NoErr(err)
		is.Equal(pl, Plus)
	}
	pl, err := ParsePlayer("-1")
	is.NoErr(err)
	is.Equal(pl, Minus)
	_, err = ParsePlayer("2")
	is.True(errors.Is(err, ErrInvalidPlayer))
}

func TestStartTotals(t *testing.T) {
	is := is.New(t)
	totals := StartTotals()
	is.Equal(len(totals), 36)
	is.Equal(totals[0], 11)
	is.Equal(totals[5], 16)
	is.Equal(totals[6], 21)
	is.Equal(totals[35], 66)
}

func TestRollStart(t *testing.T) {
	is := is.New(t)
	valid := map[int]bool{}
	for _, total := range StartTotals() {
		valid[total] = true
	}
	for i := 0; i < 500; i++ {
		total, face := RollStart()
		is.True(valid[total])
		is.True(face >= MinFace && face <= MaxFace)
	}
}
