package cart

// Reduce applies cmd to state and returns the new state. It never mutates
// the input and never fails; unknown commands return the state unchanged.
func Reduce(state State, cmd Command) State {
	switch c := cmd.(type) {
	case AddItem:
		lines := state.Snapshot()
		if i := indexOf(lines, c.Item.ID); i >= 0 {
			lines[i].Quantity++
			return withLines(state, lines)
		}
		lines = append(lines, Line{
			ID:        c.Item.ID,
			Name:      c.Item.Name,
			UnitPrice: c.Item.UnitPrice,
			Quantity:  1,
			ImageURL:  c.Item.ImageURL,
		})
		return withLines(state, lines)

	case UpdateQuantity:
		if c.Quantity <= 0 {
			return Reduce(state, RemoveItem{ID: c.ID})
		}
		lines := state.Snapshot()
		if i := indexOf(lines, c.ID); i >= 0 {
			lines[i].Quantity = c.Quantity
		}
		return withLines(state, lines)

	case RemoveItem:
		lines := make([]Line, 0, len(state.Lines))
		for _, l := range state.Lines {
			if l.ID != c.ID {
				lines = append(lines, l)
			}
		}
		return withLines(state, lines)

	case ClearCart:
		return Empty()

	case ToggleCart:
		next := state.clone()
		next.DrawerOpen = !state.DrawerOpen
		return next

	case CloseCart:
		next := state.clone()
		next.DrawerOpen = false
		return next

	default:
		return state
	}
}
