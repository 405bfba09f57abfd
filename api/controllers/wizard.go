package controllers

import (
	"net/http"

	"github.com/bistrohub/ordering/api/middleware"
	"github.com/bistrohub/ordering/api/responses"
	"github.com/bistrohub/ordering/api/validators"
	"github.com/bistrohub/ordering/internal/cart"
	"github.com/bistrohub/ordering/internal/wizard"
	"github.com/bistrohub/ordering/pkg/enums"
	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
	"github.com/bistrohub/ordering/pkg/logger"
)

// WizardSessions hands out the per-session wizard under its session lock.
type WizardSessions interface {
	With(sessionID string, fn func(*wizard.Controller) error) error
}

// wizardEventRequest is the union of every wizard input. Only the fields of
// the chosen type are read.
type wizardEventRequest struct {
	Type string `json:"type" validate:"required,oneof=start answer_resume choose_category cancel back pick_meal configure_meal pick_beverage configure_beverage configure_addon increment decrement add_more next_step come_back_later choose_fulfillment submit_address submit_contact submit_comments"`

	Fresh     bool   `json:"fresh,omitempty"`
	Confirmed bool   `json:"confirmed,omitempty"`
	Category  string `json:"category,omitempty"`

	Name     string  `json:"name,omitempty" validate:"max=100"`
	Meat     string  `json:"meat,omitempty" validate:"max=100"`
	Sauce    string  `json:"sauce,omitempty" validate:"max=100"`
	Size     string  `json:"size,omitempty"`
	Capacity float64 `json:"capacity,omitempty"`
	Quantity int     `json:"quantity,omitempty"`

	Line *cart.LineRef `json:"line,omitempty"`

	OrderType   string `json:"orderType,omitempty"`
	Street      string `json:"street,omitempty"`
	HouseNumber int    `json:"houseNumber,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	City        string `json:"city,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Comment     string `json:"comment,omitempty"`
}

func (r wizardEventRequest) toInput() (wizard.Input, error) {
	switch r.Type {
	case "start":
		return wizard.Start{Fresh: r.Fresh}, nil
	case "answer_resume":
		return wizard.AnswerResume{Confirmed: r.Confirmed}, nil
	case "choose_category":
		return wizard.ChooseCategory{Category: enums.Category(r.Category)}, nil
	case "cancel":
		return wizard.Cancel{}, nil
	case "back":
		return wizard.Back{}, nil
	case "pick_meal":
		return wizard.PickMeal{Name: r.Name}, nil
	case "configure_meal":
		return wizard.ConfigureMeal{Meat: r.Meat, Sauce: r.Sauce, Size: r.Size, Quantity: r.Quantity}, nil
	case "pick_beverage":
		return wizard.PickBeverage{Name: r.Name}, nil
	case "configure_beverage":
		return wizard.ConfigureBeverage{Capacity: r.Capacity, Quantity: r.Quantity}, nil
	case "configure_addon":
		return wizard.ConfigureAddon{Name: r.Name, Quantity: r.Quantity}, nil
	case "increment", "decrement":
		if r.Line == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line required").
				WithDetails(map[string]string{"line": "is required"})
		}
		if r.Type == "increment" {
			return wizard.Increment{Line: *r.Line}, nil
		}
		return wizard.Decrement{Line: *r.Line}, nil
	case "add_more":
		return wizard.AddMore{}, nil
	case "next_step":
		return wizard.NextStep{}, nil
	case "come_back_later":
		return wizard.ComeBackLater{}, nil
	case "choose_fulfillment":
		return wizard.ChooseFulfillment{OrderType: enums.OrderType(r.OrderType)}, nil
	case "submit_address":
		return wizard.SubmitAddress{Street: r.Street, HouseNumber: r.HouseNumber, PostalCode: r.PostalCode, City: r.City}, nil
	case "submit_contact":
		return wizard.SubmitContact{Phone: r.Phone, Email: r.Email}, nil
	case "submit_comments":
		return wizard.SubmitComments{Comment: r.Comment}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown event type").
		WithDetails(map[string]string{"type": "is invalid"})
}

// WizardView renders the session's current step.
func WizardView(sessions WizardSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := middleware.SessionIDFromContext(r.Context())
		if sid == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session required"))
			return
		}

		var view wizard.View
		err := sessions.With(sid, func(ctrl *wizard.Controller) error {
			view = ctrl.View(r.Context())
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// WizardEvent applies one customer input and answers with the resulting view.
// Inline validation problems come back as a 200 with view.error set.
func WizardEvent(sessions WizardSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := middleware.SessionIDFromContext(r.Context())
		if sid == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session required"))
			return
		}

		var req wizardEventRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithField(ctx, "wizard_event", in.Kind())
		}

		var view wizard.View
		err = sessions.With(sid, func(ctrl *wizard.Controller) error {
			var handleErr error
			view, handleErr = ctrl.Handle(ctx, in)
			return handleErr
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
