package wizard

import (
	"github.com/bistrohub/ordering/internal/cart"
	"github.com/bistrohub/ordering/pkg/enums"
)

// Input is a customer action fed to the wizard.
type Input interface {
	Kind() string
}

// Start opens the wizard. HasSavedCart is filled in by the controller.
type Start struct {
	Fresh        bool
	HasSavedCart bool
}

type AnswerResume struct {
	Confirmed bool
}

type ChooseCategory struct {
	Category enums.Category
}

type Cancel struct{}

type Back struct{}

type PickMeal struct {
	Name string
}

type ConfigureMeal struct {
	Meat     string
	Sauce    string
	Size     string
	Quantity int
}

type PickBeverage struct {
	Name string
}

type ConfigureBeverage struct {
	Capacity float64
	Quantity int
}

type ConfigureAddon struct {
	Name     string
	Quantity int
}

type Increment struct {
	Line cart.LineRef
}

type Decrement struct {
	Line cart.LineRef
}

type AddMore struct{}

type NextStep struct{}

type ComeBackLater struct{}

type ChooseFulfillment struct {
	OrderType enums.OrderType
}

type SubmitAddress struct {
	Street      string
	HouseNumber int
	PostalCode  string
	City        string
}

type SubmitContact struct {
	Phone string
	Email string
}

type SubmitComments struct {
	Comment string
}

func (Start) Kind() string             { return "start" }
func (AnswerResume) Kind() string      { return "answer_resume" }
func (ChooseCategory) Kind() string    { return "choose_category" }
func (Cancel) Kind() string            { return "cancel" }
func (Back) Kind() string              { return "back" }
func (PickMeal) Kind() string          { return "pick_meal" }
func (ConfigureMeal) Kind() string     { return "configure_meal" }
func (PickBeverage) Kind() string      { return "pick_beverage" }
func (ConfigureBeverage) Kind() string { return "configure_beverage" }
func (ConfigureAddon) Kind() string    { return "configure_addon" }
func (Increment) Kind() string         { return "increment" }
func (Decrement) Kind() string         { return "decrement" }
func (AddMore) Kind() string           { return "add_more" }
func (NextStep) Kind() string          { return "next_step" }
func (ComeBackLater) Kind() string     { return "come_back_later" }
func (ChooseFulfillment) Kind() string { return "choose_fulfillment" }
func (SubmitAddress) Kind() string     { return "submit_address" }
func (SubmitContact) Kind() string     { return "submit_contact" }
func (SubmitComments) Kind() string    { return "submit_comments" }
