package api

import (
	"net/http"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/billing"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/binder"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/usage"
)

type usageRequest struct {
	UserID string `json:"userId"`
}

type usageResponse struct {
	Success   bool            `json:"success"`
	Remaining usage.Remaining `json:"remaining"`
}

// updateUsage meters one action. An exhausted quota is a normal 200 answer
// with success=false so the client can show the upgrade prompt.
func (h *handlers) updateUsage(w http.ResponseWriter, r *http.Request) {
	var req usageRequest
	if err := binder.JSON(r, &req, h.cfg.MaxBodyBytes); err != nil {
		h.fail(w, r, err)
		return
	}

	dec, err := h.usage.CheckAndConsume(r.Context(), req.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usageResponse{Success: dec.Allowed, Remaining: dec.Remaining})
}

type planResponse struct {
	Plan      billing.Plan    `json:"plan"`
	IsPremium bool            `json:"isPremium"`
	Remaining usage.Remaining `json:"remaining"`
}

func (h *handlers) userPlan(w http.ResponseWriter, r *http.Request) {
	userID, err := binder.Query(r, "user_id")
	if err != nil {
		h.fail(w, r, usage.ErrMissingUserID)
		return
	}

	plan, err := h.reconciler.CurrentPlan(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	acct, remaining, err := h.usage.Status(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, planResponse{Plan: plan, IsPremium: acct.IsPremium, Remaining: remaining})
}
