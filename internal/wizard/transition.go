package wizard

import (
	"fmt"

	"github.com/bistrohub/ordering/pkg/checkout"
	"github.com/bistrohub/ordering/pkg/enums"
	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
)

// backTargets lists where Back leads from each step that supports it.
var backTargets = map[State]State{
	StateMealPick:          StateCategoryChoice,
	StateMealConfigure:     StateMealPick,
	StateBeveragePick:      StateCategoryChoice,
	StateBeverageConfigure: StateBeveragePick,
	StateAddonConfigure:    StateCategoryChoice,
	StateFulfillmentChoice: StateReview,
	StateAddressEntry:      StateFulfillmentChoice,
	StateContactEntry:      StateFulfillmentChoice,
	StateComments:          StateContactEntry,
}

// Transition computes the next snapshot and the effects needed to reach it.
// It does no I/O. Inputs that are not accepted in the current state fail
// with STATE_CONFLICT. Invalid form input returns the unchanged state with
// Error set and no effects.
func Transition(s Snapshot, in Input) (Snapshot, []Effect, error) {
	if in == nil {
		return s, nil, pkgerrors.New(pkgerrors.CodeValidation, "input required")
	}
	if _, ok := in.(Back); ok {
		target, ok := backTargets[s.State]
		if !ok {
			return s, nil, conflict(s, in)
		}
		next := s.moveTo(target)
		if target == StateReview || target == StateCategoryChoice {
			next.Meal, next.Beverage = "", ""
		}
		return next, nil, nil
	}

	switch s.State {
	case StateIdle, StateSubmitted:
		if start, ok := in.(Start); ok {
			return start.transition()
		}

	case StateResumePrompt:
		if answer, ok := in.(AnswerResume); ok {
			if answer.Confirmed {
				return Snapshot{State: StateReview}, []Effect{LoadSavedCart{}}, nil
			}
			return Snapshot{State: StateCategoryChoice}, []Effect{DiscardSavedCart{}, ResetCart{}}, nil
		}

	case StateCategoryChoice:
		switch v := in.(type) {
		case ChooseCategory:
			switch v.Category {
			case enums.CategoryMeals:
				return s.moveTo(StateMealPick), nil, nil
			case enums.CategoryBeverages:
				return s.moveTo(StateBeveragePick), nil, nil
			case enums.CategoryAddons:
				return s.moveTo(StateAddonConfigure), nil, nil
			}
			return s.withError(pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown category %q", v.Category)).
				WithDetails(map[string]string{"category": "is invalid"})), nil, nil
		case Cancel:
			return Snapshot{State: StateIdle}, nil, nil
		}

	case StateMealPick:
		if pick, ok := in.(PickMeal); ok {
			next := s.moveTo(StateMealConfigure)
			next.Meal = pick.Name
			return next, []Effect{SelectMeal{Name: pick.Name}}, nil
		}

	case StateMealConfigure:
		if cfg, ok := in.(ConfigureMeal); ok {
			next := s.moveTo(StateReview)
			next.Meal = ""
			return next, []Effect{AddMeal{
				Meal:     s.Meal,
				Meat:     cfg.Meat,
				Sauce:    cfg.Sauce,
				Size:     cfg.Size,
				Quantity: cfg.Quantity,
			}}, nil
		}

	case StateBeveragePick:
		if pick, ok := in.(PickBeverage); ok {
			next := s.moveTo(StateBeverageConfigure)
			next.Beverage = pick.Name
			return next, []Effect{SelectBeverage{Name: pick.Name}}, nil
		}

	case StateBeverageConfigure:
		if cfg, ok := in.(ConfigureBeverage); ok {
			next := s.moveTo(StateReview)
			next.Beverage = ""
			return next, []Effect{AddBeverage{Name: s.Beverage, Capacity: cfg.Capacity, Quantity: cfg.Quantity}}, nil
		}

	case StateAddonConfigure:
		if cfg, ok := in.(ConfigureAddon); ok {
			return s.moveTo(StateReview), []Effect{AddAddon{Name: cfg.Name, Quantity: cfg.Quantity}}, nil
		}

	case StateReview:
		switch v := in.(type) {
		case Increment:
			return s.moveTo(StateReview), []Effect{IncrementLine{Line: v.Line}}, nil
		case Decrement:
			return s.moveTo(StateReview), []Effect{DecrementLine{Line: v.Line}}, nil
		case AddMore:
			return s.moveTo(StateCategoryChoice), nil, nil
		case NextStep:
			return s.moveTo(StateFulfillmentChoice), nil, nil
		case ComeBackLater:
			return Snapshot{State: StateIdle}, nil, nil
		}

	case StateFulfillmentChoice:
		if choice, ok := in.(ChooseFulfillment); ok {
			if !choice.OrderType.IsValid() {
				return s.withError(pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order type %q", choice.OrderType)).
					WithDetails(map[string]string{"orderType": "is invalid"})), nil, nil
			}
			target := StateContactEntry
			if choice.OrderType.RequiresAddress() {
				target = StateAddressEntry
			}
			next := s.moveTo(target)
			orderType := choice.OrderType
			next.OrderType = &orderType
			return next, []Effect{SetFulfillment{OrderType: orderType}}, nil
		}

	case StateAddressEntry:
		if form, ok := in.(SubmitAddress); ok {
			addr, err := checkout.ValidateAddress(checkout.Address{
				Street:      form.Street,
				HouseNumber: form.HouseNumber,
				PostalCode:  form.PostalCode,
				City:        form.City,
			})
			if err != nil {
				return s.withError(err), nil, nil
			}
			return s.moveTo(StateContactEntry), []Effect{SetAddress{Address: addr}}, nil
		}

	case StateContactEntry:
		if form, ok := in.(SubmitContact); ok {
			contact, err := checkout.ValidateContact(checkout.Contact{Phone: form.Phone, Email: form.Email})
			if err != nil {
				return s.withError(err), nil, nil
			}
			return s.moveTo(StateComments), []Effect{SetContact{Contact: contact}}, nil
		}

	case StateComments:
		if form, ok := in.(SubmitComments); ok {
			comment, err := checkout.ValidateComment(checkout.Comment{Comment: form.Comment})
			if err != nil {
				return s.withError(err), nil, nil
			}
			if s.OrderType == nil {
				return s, nil, pkgerrors.New(pkgerrors.CodeStateConflict, "fulfillment method not chosen")
			}
			return Snapshot{State: StateSubmitted, OrderType: s.OrderType}, []Effect{
				SetComment{Comment: comment.Comment},
				SubmitOrder{OrderType: *s.OrderType},
			}, nil
		}
	}

	return s, nil, conflict(s, in)
}

func (start Start) transition() (Snapshot, []Effect, error) {
	if start.Fresh {
		return Snapshot{State: StateCategoryChoice}, []Effect{DiscardSavedCart{}, ResetCart{}}, nil
	}
	if start.HasSavedCart {
		return Snapshot{State: StateResumePrompt}, nil, nil
	}
	return Snapshot{State: StateCategoryChoice}, []Effect{ResetCart{}}, nil
}

func conflict(s Snapshot, in Input) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s is not allowed in state %s", in.Kind(), s.State)).
		WithDetails(map[string]string{"state": s.State.String(), "input": in.Kind()})
}
