package minesweeperv1

// ApplyUpdate folds a stream update into a local copy of the game and
// returns the copy to keep. A FULL_STATE update replaces the copy. Other
// updates that arrive before the first full state are ignored, and changes
// outside the board are skipped.
func ApplyUpdate(state *GameState, u *GameUpdate) *GameState {
	if u == nil {
		return state
	}
	if u.Kind == UpdateKind_UPDATE_KIND_FULL_STATE {
		return u.State
	}
	if state == nil {
		return nil
	}

	switch u.Kind {
	case UpdateKind_UPDATE_KIND_CHANGES:
		for _, ch := range u.Changes {
			if ch == nil || ch.Row < 0 || ch.Col < 0 || ch.Row >= state.Height || ch.Col >= state.Width {
				continue
			}
			idx := ch.Row*state.Width + ch.Col
			if int(idx) < len(state.Cells) {
				state.Cells[idx] = ch
			}
		}
		state.Status = u.Status
		state.PlacedFlags = u.PlacedFlags
	case UpdateKind_UPDATE_KIND_STATUS:
		state.Status = u.Status
	}
	state.ElapsedSeconds = u.ElapsedSeconds
	return state
}
