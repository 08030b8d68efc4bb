package cart

// Command is one of AddItem, UpdateQuantity, RemoveItem, ClearCart,
// ToggleCart or CloseCart.
type Command interface {
	commandName() string
}

type AddItem struct{ Item Item }

// UpdateQuantity sets the absolute quantity; zero or less removes the line.
type UpdateQuantity struct {
	ID       string
	Quantity int
}

type RemoveItem struct{ ID string }

type ClearCart struct{}

type ToggleCart struct{}

type CloseCart struct{}

func (AddItem) commandName() string        { return "ADD_ITEM" }
func (UpdateQuantity) commandName() string { return "UPDATE_QUANTITY" }
func (RemoveItem) commandName() string     { return "REMOVE_ITEM" }
func (ClearCart) commandName() string      { return "CLEAR_CART" }
func (ToggleCart) commandName() string     { return "TOGGLE_CART" }
func (CloseCart) commandName() string      { return "CLOSE_CART" }

// Name returns the wire name of a command, e.g. "ADD_ITEM".
func Name(cmd Command) string {
	if cmd == nil {
		return ""
	}
	return cmd.commandName()
}

// mutates reports whether cmd can change lines/total/count and so must be persisted.
func mutates(cmd Command) bool {
	switch cmd.(type) {
	case AddItem, UpdateQuantity, RemoveItem, ClearCart:
		return true
	default:
		return false
	}
}
