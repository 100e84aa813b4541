package negamax

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/diceflip/perfecthash"
)

// Node types. 0 is reserved for an empty slot, so a zeroed table holds no
// entries.
const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

const entrySize = 2

const (
	scoreBits = 6
	flagBits  = 2
	depthBits = 8

	flagShift  = scoreBits
	depthShift = scoreBits + flagBits

	scoreMask = 1<<scoreBits - 1
	flagMask  = 1<<flagBits - 1
	depthMask = 1<<depthBits - 1

	// MinStoredScore and MaxStoredScore bound the 6-bit score field.
	MinStoredScore = -(1 << (scoreBits - 1))
	MaxStoredScore = 1<<(scoreBits-1) - 1
	// MaxStoredDepth is the deepest search an entry can record.
	MaxStoredDepth = depthMask
)

var ErrTableTooLarge = errors.New("transposition table does not fit in memory")

// totalMemory is swapped out in tests.
var totalMemory = memory.TotalMemory

// TableEntry is 16 bits:
//
//	bits 0..5   score (two's complement)
//	bits 6..7   flag
//	bits 8..15  depth
type TableEntry uint16

func newTableEntry(depth int, flag uint8, score int8) TableEntry {
	if depth < 0 || depth > MaxStoredDepth {
		panic(fmt.Sprintf("depth %d does not fit in a table entry", depth))
	}
	if flag < TTExact || flag > TTUpper {
		panic(fmt.Sprintf("bad table entry flag %d", flag))
	}
	if score < MinStoredScore || score > MaxStoredScore {
		panic(fmt.Sprintf("score %d does not fit in a table entry", score))
	}
	return TableEntry(uint16(depth)<<depthShift |
		uint16(flag)<<flagShift |
		uint16(uint8(score)&scoreMask))
}

func (t TableEntry) score() int8 {
	// shift the sign bit of the 6-bit field into bit 7 and back.
	return int8(uint8(t&scoreMask)<<(8-scoreBits)) >> (8 - scoreBits)
}

func (t TableEntry) flag() uint8 {
	return uint8(t>>flagShift) & flagMask
}

func (t TableEntry) depth() uint8 {
	return uint8(t >> depthShift)
}

func (t TableEntry) valid() bool {
	// a table flag is 1, 2, or 3.
	return t.flag() != 0
}

// TableStats is a snapshot of the table's counters.
type TableStats struct {
	Size     int
	Occupied int
	Created  uint64
	Lookups  uint64
	Hits     uint64
}

func (s TableStats) String() string {
	hitRate := 0.0
	if s.Lookups > 0 {
		hitRate = float64(s.Hits) / float64(s.Lookups)
	}
	return fmt.Sprintf("size: %d occupied: %d created: %d lookups: %d hits: %d (%.2f%%)",
		s.Size, s.Occupied, s.Created, s.Lookups, s.Hits, 100*hitRate)
}

// TranspositionTable is indexed directly by the perfect hash key, so there
// is no bucket verification: a slot belongs to exactly one position.
type TranspositionTable struct {
	table   []TableEntry
	created atomic.Uint64
	lookups atomic.Uint64
	hits    atomic.Uint64
}

func (t *TranspositionTable) lookup(key perfecthash.Key) TableEntry {
	t.lookups.Add(1)
	e := t.table[key]
	if e.valid() {
		t.hits.Add(1)
	}
	return e
}

func (t *TranspositionTable) store(key perfecthash.Key, tentry TableEntry) {
	// just overwrite whatever is there.
	t.table[key] = tentry
	t.created.Add(1)
}

// Reset allocates the table, or zeroes it if it already exists.
func (t *TranspositionTable) Reset() error {
	numElems := perfecthash.KeySpace
	needed := uint64(numElems * entrySize)
	totalMem := totalMemory()
	// TotalMemory returns 0 when it cannot tell.
	if totalMem != 0 && needed > totalMem {
		return fmt.Errorf("%w: need %d bytes, system has %d", ErrTableTooLarge, needed, totalMem)
	}
	reset := false
	if t.table != nil && len(t.table) == numElems {
		reset = true
		clear(t.table)
	} else {
		t.table = make([]TableEntry, numElems)
	}

	log.Debug().Int("num-elems", numElems).
		Uint64("estimated-total-memory-bytes", needed).
		Uint64("total-system-memory-bytes", totalMem).
		Bool("reset", reset).
		Msg("transposition-table-size")

	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	return nil
}

// Stats counts occupied slots and returns the counters.
func (t *TranspositionTable) Stats() TableStats {
	occupied := 0
	for _, e := range t.table {
		if e.valid() {
			occupied++
		}
	}
	return TableStats{
		Size:     len(t.table),
		Occupied: occupied,
		Created:  t.created.Load(),
		Lookups:  t.lookups.Load(),
		Hits:     t.hits.Load(),
	}
}
