package app

// NextMover applies the single turn handoff rule: the next mover is the
// other member of the pair, or the automated slot when the room holds a
// single human. A solo room with no automated opponent hands the turn back
// to the mover.
func NextMover(members []string, moverID, cpuID string) string {
	if len(members) >= 2 {
		for _, m := range members {
			if m != moverID {
				return m
			}
		}
	}
	if cpuID != "" {
		return cpuID
	}
	return moverID
}
