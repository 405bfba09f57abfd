package controllers

import (
	"net/http"

	"github.com/bistrohub/ordering/api/middleware"
	"github.com/bistrohub/ordering/api/responses"
	"github.com/bistrohub/ordering/internal/persistence"
	"github.com/bistrohub/ordering/internal/wizard"
	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
	"github.com/bistrohub/ordering/pkg/logger"
)

// TrackingHandle returns the last submitted order of the session.
func TrackingHandle(sessions WizardSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := middleware.SessionIDFromContext(r.Context())
		if sid == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session required"))
			return
		}

		var handle *persistence.TrackingHandle
		err := sessions.With(sid, func(ctrl *wizard.Controller) error {
			var loadErr error
			handle, loadErr = ctrl.Tracking(r.Context())
			return loadErr
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if handle == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no order to track"))
			return
		}
		responses.WriteSuccess(w, handle)
	}
}

// ForgetTracking drops the session's tracking handle.
func ForgetTracking(sessions WizardSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := middleware.SessionIDFromContext(r.Context())
		if sid == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session required"))
			return
		}

		err := sessions.With(sid, func(ctrl *wizard.Controller) error {
			return ctrl.ForgetTracking(r.Context())
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
