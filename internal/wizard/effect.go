package wizard

import (
	"github.com/bistrohub/ordering/internal/cart"
	"github.com/bistrohub/ordering/pkg/checkout"
	"github.com/bistrohub/ordering/pkg/enums"
)

// Effect is a side effect requested by Transition and run by the Controller.
type Effect interface {
	effect()
}

type LoadSavedCart struct{}

type DiscardSavedCart struct{}

type ResetCart struct{}

// SelectMeal checks that the picked meal exists before configuring it.
type SelectMeal struct {
	Name string
}

// SelectBeverage checks that the picked beverage exists before configuring it.
type SelectBeverage struct {
	Name string
}

type AddMeal struct {
	Meal     string
	Meat     string
	Sauce    string
	Size     string
	Quantity int
}

type AddBeverage struct {
	Name     string
	Capacity float64
	Quantity int
}

type AddAddon struct {
	Name     string
	Quantity int
}

type IncrementLine struct {
	Line cart.LineRef
}

type DecrementLine struct {
	Line cart.LineRef
}

type SetFulfillment struct {
	OrderType enums.OrderType
}

type SetAddress struct {
	Address checkout.Address
}

type SetContact struct {
	Contact checkout.Contact
}

type SetComment struct {
	Comment string
}

type SubmitOrder struct {
	OrderType enums.OrderType
}

func (LoadSavedCart) effect()    {}
func (DiscardSavedCart) effect() {}
func (ResetCart) effect()        {}
func (SelectMeal) effect()       {}
func (SelectBeverage) effect()   {}
func (AddMeal) effect()          {}
func (AddBeverage) effect()      {}
func (AddAddon) effect()         {}
func (IncrementLine) effect()    {}
func (DecrementLine) effect()    {}
func (SetFulfillment) effect()   {}
func (SetAddress) effect()       {}
func (SetContact) effect()       {}
func (SetComment) effect()       {}
func (SubmitOrder) effect()      {}
