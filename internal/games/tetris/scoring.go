package tetris

// tetrisMultiplier applies when exactly four rows clear at once.
const tetrisMultiplier = 4

// Points returns the score earned by one row-clear event.
// heightSum is the sum of (row+1) over the cleared rows before compaction.
func Points(cleared, heightSum int) int {
	if cleared <= 0 {
		return 0
	}
	mult := 1
	if cleared == 4 {
		mult = tetrisMultiplier
	}
	return heightSum * cleared * mult
}
