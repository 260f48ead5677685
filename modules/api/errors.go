package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/billing"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/binder"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/generation"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/logger"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/usage"
)

// HTTPError is a status code with the message shown to clients.
type HTTPError struct {
	Code    int
	Message string
}

func (e HTTPError) Error() string { return e.Message }

var (
	ErrBadRequest  = HTTPError{Code: http.StatusBadRequest, Message: "bad request"}
	ErrInternal    = HTTPError{Code: http.StatusInternalServerError, Message: "internal server error"}
	ErrUnavailable = HTTPError{Code: http.StatusServiceUnavailable, Message: "service temporarily unavailable"}
)

// First match wins; more specific errors come first.
var errorTable = []struct {
	target error
	resp   HTTPError
}{
	{binder.ErrMissingContentType, HTTPError{http.StatusUnsupportedMediaType, "content type must be application/json"}},
	{binder.ErrUnsupportedMediaType, HTTPError{http.StatusUnsupportedMediaType, "content type must be application/json"}},
	{binder.ErrBodyTooLarge, HTTPError{http.StatusRequestEntityTooLarge, "request body too large"}},
	{binder.ErrInvalidJSON, HTTPError{http.StatusBadRequest, "invalid JSON body"}},

	{usage.ErrMissingUserID, HTTPError{http.StatusBadRequest, "userId is required"}},
	{billing.ErrMissingUserID, HTTPError{http.StatusBadRequest, "userId is required"}},
	{billing.ErrUnknownPlan, HTTPError{http.StatusBadRequest, "invalid plan"}},
	{billing.ErrMissingSessionID, HTTPError{http.StatusBadRequest, "sessionId is required"}},
	{billing.ErrInvalidSignature, HTTPError{http.StatusBadRequest, "invalid webhook signature"}},
	{billing.ErrMalformedEvent, HTTPError{http.StatusBadRequest, "malformed webhook event"}},
	{billing.ErrSessionNotFound, HTTPError{http.StatusNotFound, "checkout session not found"}},
	{billing.ErrPaymentIncomplete, HTTPError{http.StatusPaymentRequired, "payment not completed"}},
	{generation.ErrEmptyInput, HTTPError{http.StatusBadRequest, "text is required"}},
	{generation.ErrUnknownKind, HTTPError{http.StatusBadRequest, "unknown generation kind"}},

	{usage.ErrStorage, ErrUnavailable},
	{billing.ErrPlanNotConfigured, HTTPError{http.StatusInternalServerError, "plan is not available"}},
	{billing.ErrCheckoutCreation, HTTPError{http.StatusInternalServerError, "failed to create checkout session"}},
	{billing.ErrProvider, HTTPError{http.StatusInternalServerError, "failed to verify subscription"}},
	{billing.ErrStorage, ErrInternal},
	{generation.ErrUpstream, HTTPError{http.StatusInternalServerError, "failed to generate content"}},
}

func toHTTPError(err error) HTTPError {
	var he HTTPError
	if errors.As(err, &he) {
		return he
	}
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			return e.resp
		}
	}
	return ErrInternal
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	he := toHTTPError(err)
	if he.Code >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", he.Code),
			logger.Error(err),
		)
	}
	writeJSON(w, he.Code, errorBody{Error: he.Message})
}
