package euchre

// scoring awards
const (
	pointsMarch       = 2
	pointsLoneMarch   = 4
	pointsSingle      = 1
	pointsEuchre      = 2
	tricksPerHand     = 5
	tricksNeededToWin = 3
)

// scoreHand maps trick counts and the going-alone flag to points and whether
// the maker partnership is awarded. Pure function over trick counts only.
//
// Taking all five tricks scores 2, or 4 alone. Three or four tricks score 1
// regardless of alone. Fewer than three is a euchre: 2 points to the defenders.
func scoreHand(makerTricks, defenderTricks int, wentAlone bool) (points int, makerAwarded bool) {
	if makerTricks < tricksNeededToWin {
		return pointsEuchre, false
	}

	if makerTricks == tricksPerHand {
		if wentAlone {
			return pointsLoneMarch, true
		}

		return pointsMarch, true
	}

	return pointsSingle, true
}
