// Package cart holds the customer's shopping cart for one browser session.
//
// All mutations go through Reduce, a pure function of (state, command).
// Store wraps it with persistence to a durable key/value Storage.
package cart

import "github.com/shopspring/decimal"

// Line is one distinct menu item and its quantity.
type Line struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	ImageURL  string
}

// Subtotal is UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Item is the payload of an AddItem command.
type Item struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	ImageURL  string
}

// State is the cart. Total and Count are derived from Lines and are
// recomputed on every mutation; DrawerOpen is UI state and is never persisted.
type State struct {
	Lines      []Line
	Total      decimal.Decimal
	Count      int
	DrawerOpen bool
}

func Empty() State {
	return State{Lines: []Line{}, Total: decimal.Zero}
}

func (s State) IsEmpty() bool { return len(s.Lines) == 0 }

// Snapshot returns a copy of the lines that later mutations cannot reach.
func (s State) Snapshot() []Line {
	out := make([]Line, len(s.Lines))
	copy(out, s.Lines)
	return out
}

func (s State) clone() State {
	s.Lines = s.Snapshot()
	return s
}

func withLines(s State, lines []Line) State {
	s.Lines = lines
	s.Total = decimal.Zero
	s.Count = 0
	for _, l := range lines {
		s.Total = s.Total.Add(l.Subtotal())
		s.Count += l.Quantity
	}
	return s
}

func indexOf(lines []Line, id string) int {
	for i, l := range lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}
