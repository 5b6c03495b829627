package ability

import "nightfall/client/internal/game"

// PlayerListSet returns the list with position pos edited: an in-bounds pos
// replaces, an out-of-bounds pos appends, and a nil player removes the entry
// at pos. The input is never mutated.
func PlayerListSet(list []game.PlayerIndex, pos int, player *game.PlayerIndex) []game.PlayerIndex {
	if player == nil {
		if pos < 0 || pos >= len(list) {
			return append([]game.PlayerIndex(nil), list...)
		}
		out := make([]game.PlayerIndex, 0, len(list)-1)
		out = append(out, list[:pos]...)
		return append(out, list[pos+1:]...)
	}
	if pos < 0 || pos >= len(list) {
		return append(append([]game.PlayerIndex(nil), list...), *player)
	}
	out := append([]game.PlayerIndex(nil), list...)
	out[pos] = *player
	return out
}

// PlayerListToggle appends the player if absent and removes its first
// occurrence if present.
func PlayerListToggle(list []game.PlayerIndex, player game.PlayerIndex) []game.PlayerIndex {
	for i, p := range list {
		if p == player {
			return PlayerListSet(list, i, nil)
		}
	}
	return append(append([]game.PlayerIndex(nil), list...), player)
}

// TwoSlotOutlineToggle edits a two-slot outline selection with one tap.
// A struck choice (already used up, or not currently offered) is a no-op.
// Choosing a slot that is already selected deselects it. Otherwise the
// choice fills the first empty slot; with both slots full it overwrites the
// first.
func TwoSlotOutlineToggle(sel TwoRoleOutlineOptionSelection, struck []OutlineIndex, choice OutlineIndex) TwoRoleOutlineOptionSelection {
	for _, s := range struck {
		if s == choice {
			return sel
		}
	}
	return TwoSlotToggle(sel, choice)
}

// TwoSlotToggle is TwoSlotOutlineToggle without a struck set.
func TwoSlotToggle(sel TwoRoleOutlineOptionSelection, choice OutlineIndex) TwoRoleOutlineOptionSelection {
	if sel.First != nil && *sel.First == choice {
		return TwoRoleOutlineOptionSelection{Second: sel.Second}
	}
	if sel.Second != nil && *sel.Second == choice {
		return TwoRoleOutlineOptionSelection{First: sel.First}
	}
	c := choice
	if sel.First == nil {
		return TwoRoleOutlineOptionSelection{First: &c, Second: sel.Second}
	}
	if sel.Second == nil {
		return TwoRoleOutlineOptionSelection{First: sel.First, Second: &c}
	}
	return TwoRoleOutlineOptionSelection{First: &c, Second: sel.Second}
}
