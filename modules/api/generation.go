package api

import (
	"net/http"
	"strings"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/binder"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/generation"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/logger"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/ratelimiter"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/usage"
)

type generateRequest struct {
	Text   string `json:"text"`
	UserID string `json:"userId"`
}

type generateResponse struct {
	Result string `json:"result"`
}

type quotaResponse struct {
	Error     string          `json:"error"`
	Allowed   bool            `json:"allowed"`
	Remaining usage.Remaining `json:"remaining"`
}

// generate meters the caller, then calls the gateway. A consumed unit is not
// refunded if generation fails.
func (h *handlers) generate(kind generation.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := binder.JSON(r, &req, h.cfg.MaxBodyBytes); err != nil {
			h.fail(w, r, err)
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			h.fail(w, r, generation.ErrEmptyInput)
			return
		}

		userID := strings.TrimSpace(req.UserID)
		if userID == "" {
			h.fail(w, r, usage.ErrMissingUserID)
			return
		}
		dec, err := h.usage.CheckAndConsume(r.Context(), userID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if !dec.Allowed {
			writeJSON(w, http.StatusPaymentRequired, quotaResponse{
				Error:     "free usage limit reached",
				Allowed:   false,
				Remaining: dec.Remaining,
			})
			return
		}

		out, err := h.generator.Generate(r.Context(), kind, req.Text)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, generateResponse{Result: out})
	}
}

func (h *handlers) rateLimited(w http.ResponseWriter, r *http.Request, _ *ratelimiter.Result) {
	h.log.InfoContext(r.Context(), "rate limited", logger.Component("api"))
	writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many requests"})
}

func (h *handlers) rateLimitFailed(w http.ResponseWriter, r *http.Request, err error) {
	h.log.WarnContext(r.Context(), "rate limiter unavailable", logger.Component("api"), logger.Error(err))
	writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: ErrUnavailable.Message})
}
