package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/binder"
)

type checkoutBody struct {
	UserID string `json:"userId"`
	Plan   string `json:"plan"`
}

func request(body, contentType string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes", func(t *testing.T) {
		t.Parallel()
		var v checkoutBody
		require.NoError(t, binder.JSON(request(`{"userId":"u1","plan":"starter"}`, "application/json; charset=utf-8"), &v, 0))
		assert.Equal(t, checkoutBody{UserID: "u1", Plan: "starter"}, v)
	})

	tests := []struct {
		name        string
		body        string
		contentType string
		max         int64
		err         error
	}{
		{"missing content type", `{}`, "", 0, binder.ErrMissingContentType},
		{"wrong content type", `{}`, "text/plain", 0, binder.ErrUnsupportedMediaType},
		{"empty body", ``, "application/json", 0, binder.ErrInvalidJSON},
		{"malformed", `{"userId":`, "application/json", 0, binder.ErrInvalidJSON},
		{"unknown field", `{"userId":"u1","admin":true}`, "application/json", 0, binder.ErrInvalidJSON},
		{"trailing data", `{"userId":"u1"}{"plan":"x"}`, "application/json", 0, binder.ErrInvalidJSON},
		{"wrong type", `{"userId":42}`, "application/json", 0, binder.ErrInvalidJSON},
		{"too large", `{"userId":"` + strings.Repeat("a", 64) + `"}`, "application/json", 16, binder.ErrBodyTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var v checkoutBody
			assert.ErrorIs(t, binder.JSON(request(tt.body, tt.contentType), &v, tt.max), tt.err)
		})
	}
}

func TestQuery(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/api/user-plan?user_id=%20u1%20&blank=", nil)

	v, err := binder.Query(r, "user_id")
	require.NoError(t, err)
	assert.Equal(t, "u1", v)

	_, err = binder.Query(r, "blank")
	assert.ErrorIs(t, err, binder.ErrMissingQuery)
	_, err = binder.Query(r, "absent")
	assert.ErrorIs(t, err, binder.ErrMissingQuery)
}
