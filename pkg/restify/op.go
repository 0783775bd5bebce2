package restify

import "fmt"

// Op identifies one of the five generated CRUD operations.
type Op int

const (
	Create Op = iota
	ReadOne
	ReadAll
	Update
	Delete
)

var opNames = [...]string{"create", "readOne", "readAll", "update", "delete"}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// Ops returns every generated operation in route-registration order.
func Ops() []Op {
	return []Op{Create, ReadOne, ReadAll, Update, Delete}
}
