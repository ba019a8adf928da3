package handlers

import (
	"errors"
	"net/http"

	"github.com/carepulse/carepulse/internal/services"
	"github.com/carepulse/carepulse/pkg/httputil"
	"github.com/sirupsen/logrus"
)

// respondError maps a service error onto the HTTP status taxonomy and
// writes the {message} error body. Anything unrecognized is an internal
// failure and lands on the catch-all 500.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		httputil.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		httputil.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		httputil.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		httputil.Error(w, http.StatusBadRequest, err.Error())
	default:
		logrus.WithError(err).Error("Unhandled service error")
		httputil.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
