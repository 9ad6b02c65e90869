package strategy

// balanced follows its shortest path to the food whether or not it is
// winning the race, then tries a greedy step, then the fallback.
func balanced(v *view) Decision {
	own := v.pathToFood()
	if len(own) > 0 {
		reason := ReasonPath
		if opp := v.oppPathToFood(); len(opp) > 0 && len(opp) < len(own) {
			reason = ReasonPathLosingRace
		}
		return v.guard(v.firstStep(own), reason)
	}
	if d, ok := v.greedy(); ok {
		return Decision{Direction: d, Reason: ReasonGreedy}
	}
	return v.fallback()
}
