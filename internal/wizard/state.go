package wizard

import (
	"github.com/bistrohub/ordering/pkg/enums"
	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
)

// State is a step of the ordering wizard.
type State string

const (
	StateIdle              State = "IDLE"
	StateResumePrompt      State = "RESUME_PROMPT"
	StateCategoryChoice    State = "CATEGORY_CHOICE"
	StateMealPick          State = "MEAL_PICK"
	StateMealConfigure     State = "MEAL_CONFIGURE"
	StateBeveragePick      State = "BEVERAGE_PICK"
	StateBeverageConfigure State = "BEVERAGE_CONFIGURE"
	StateAddonConfigure    State = "ADDON_CONFIGURE"
	StateReview            State = "REVIEW"
	StateFulfillmentChoice State = "FULFILLMENT_CHOICE"
	StateAddressEntry      State = "ADDRESS_ENTRY"
	StateContactEntry      State = "CONTACT_ENTRY"
	StateComments          State = "COMMENTS"
	StateSubmitted         State = "SUBMITTED"
)

func (s State) String() string {
	return string(s)
}

// InlineError is shown next to the current step. The wizard stays on that step.
type InlineError struct {
	Code      pkgerrors.Code `json:"code"`
	Message   string         `json:"message"`
	Details   any            `json:"details,omitempty"`
	Retryable bool           `json:"retryable"`
}

func inlineError(err error) *InlineError {
	typed := pkgerrors.As(err)
	if typed == nil {
		return &InlineError{Code: pkgerrors.CodeInternal, Message: err.Error(), Retryable: true}
	}
	return &InlineError{
		Code:      typed.Code(),
		Message:   typed.Message(),
		Details:   typed.Details(),
		Retryable: typed.Retryable(),
	}
}

// Snapshot is the wizard position plus the selections made on earlier steps.
type Snapshot struct {
	State     State            `json:"state"`
	Meal      string           `json:"meal,omitempty"`
	Beverage  string           `json:"beverage,omitempty"`
	OrderType *enums.OrderType `json:"orderType,omitempty"`
	Error     *InlineError     `json:"error,omitempty"`
}

// Initial is the snapshot of a session that has not started ordering.
func Initial() Snapshot {
	return Snapshot{State: StateIdle}
}

func (s Snapshot) moveTo(state State) Snapshot {
	s.State = state
	s.Error = nil
	return s
}

func (s Snapshot) withError(err error) Snapshot {
	s.Error = inlineError(err)
	return s
}
