package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/billing"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/binder"
)

type checkoutRequest struct {
	UserID string `json:"userId"`
	Plan   string `json:"plan"`
}

func (h *handlers) createCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := binder.JSON(r, &req, h.cfg.MaxBodyBytes); err != nil {
		h.fail(w, r, err)
		return
	}

	sess, err := h.checkout.Create(r.Context(), req.UserID, req.Plan)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *handlers) webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, binder.ErrBodyTooLarge)
			return
		}
		h.fail(w, r, HTTPError{Code: http.StatusBadRequest, Message: "failed to read body"})
		return
	}

	if err := h.reconciler.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

type verifyRequest struct {
	SessionID string `json:"sessionId"`
}

type verifyResponse struct {
	Success      bool                          `json:"success"`
	Subscription *billing.VerifiedSubscription `json:"subscription"`
}

func (h *handlers) verifySubscription(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := binder.JSON(r, &req, h.cfg.MaxBodyBytes); err != nil {
		h.fail(w, r, err)
		return
	}

	sub, err := h.reconciler.VerifySession(r.Context(), req.SessionID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Success: true, Subscription: sub})
}
