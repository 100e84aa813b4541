package game

import "lukechampine.com/frand"

// RollDie rolls a single die.
func RollDie() uint8 {
	return uint8(frand.Intn(MaxFace)) + 1
}

// RollStart rolls a random starting configuration: two dice read as a
// two-digit total (tens die first) and a third die for the face shown.
func RollStart() (total int, face uint8) {
	total = int(RollDie())*10 + int(RollDie())
	return total, RollDie()
}

// StartTotals lists every total RollStart can produce, ascending.
func StartTotals() []int {
	totals := make([]int, 0, MaxFace*MaxFace)
	for tens := MinFace; tens <= MaxFace; tens++ {
		for ones := MinFace; ones <= MaxFace; ones++ {
			totals = append(totals, tens*10+ones)
		}
	}
	return totals
}
