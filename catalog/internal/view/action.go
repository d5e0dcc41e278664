package view

import "fmt"

type ActionKind string

const (
	ActionBorrow  ActionKind = "borrow"
	ActionReturn  ActionKind = "return"
	ActionEdit    ActionKind = "edit"
	ActionRemove  ActionKind = "rm"
	ActionHistory ActionKind = "history"
)

var actionLabels = map[ActionKind]string{
	ActionBorrow:  "Emprestar",
	ActionReturn:  "Devolver",
	ActionEdit:    "Editar",
	ActionRemove:  "Remover",
	ActionHistory: "Histórico",
}

// Action is a row control. Book-level actions carry the book id; the
// history view's return action carries the loan id instead.
type Action struct {
	Kind   ActionKind
	BookID int64
	LoanID int64
}

func (a Action) Label() string {
	return actionLabels[a.Kind]
}

// Command is the shell line that triggers the action.
func (a Action) Command() string {
	if a.Kind == ActionReturn && a.LoanID == 0 {
		return fmt.Sprintf("%s %d", ActionHistory, a.BookID)
	}
	if a.LoanID != 0 {
		return fmt.Sprintf("%s %d", a.Kind, a.LoanID)
	}
	return fmt.Sprintf("%s %d", a.Kind, a.BookID)
}

func (a Action) String() string {
	return "[" + a.Label() + "]"
}
