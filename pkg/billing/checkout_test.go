package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/billing"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/logger"
)

var testRedirects = billing.RedirectConfig{
	FrontendURL: "https://app.example.com/",
	SuccessPath: "/upgrade-success",
	CancelPath:  "upgrade-cancelled",
}

func TestRedirectConfig(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://app.example.com/upgrade-success?session_id={CHECKOUT_SESSION_ID}", testRedirects.SuccessURL())
	assert.Equal(t, "https://app.example.com/upgrade-cancelled", testRedirects.CancelURL())
	assert.NoError(t, testRedirects.Validate())
	assert.Error(t, billing.RedirectConfig{FrontendURL: "app.example.com"}.Validate())
}

func TestCheckoutCreate(t *testing.T) {
	t.Parallel()

	catalog := billing.NewCatalog("price_starter", "price_ultimate")

	t.Run("maps plan to price and carries user id", func(t *testing.T) {
		t.Parallel()
		p := &mockProvider{}
		p.On("CreateCheckoutSession", mock.Anything, billing.CheckoutRequest{
			UserID:     "user-1",
			Plan:       billing.PlanUltimate,
			PriceID:    "price_ultimate",
			SuccessURL: testRedirects.SuccessURL(),
			CancelURL:  testRedirects.CancelURL(),
		}).Return(&billing.CheckoutSession{ID: "cs_1", URL: "https://checkout/cs_1"}, nil).Once()

		c := billing.NewCheckout(p, catalog, testRedirects, logger.Noop())
		sess, err := c.Create(context.Background(), "user-1", "ultimate")
		require.NoError(t, err)
		assert.Equal(t, "cs_1", sess.ID)
		p.AssertExpectations(t)
	})

	t.Run("rejects unknown plan without calling provider", func(t *testing.T) {
		t.Parallel()
		p := &mockProvider{}
		c := billing.NewCheckout(p, catalog, testRedirects, logger.Noop())
		_, err := c.Create(context.Background(), "user-1", "enterprise")
		assert.ErrorIs(t, err, billing.ErrUnknownPlan)
		p.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	})

	t.Run("requires user id", func(t *testing.T) {
		t.Parallel()
		c := billing.NewCheckout(&mockProvider{}, catalog, testRedirects, logger.Noop())
		_, err := c.Create(context.Background(), " ", "starter")
		assert.ErrorIs(t, err, billing.ErrMissingUserID)
	})

	t.Run("unconfigured price", func(t *testing.T) {
		t.Parallel()
		c := billing.NewCheckout(&mockProvider{}, billing.NewCatalog("price_starter", ""), testRedirects, logger.Noop())
		_, err := c.Create(context.Background(), "user-1", "ultimate")
		assert.ErrorIs(t, err, billing.ErrPlanNotConfigured)
	})

	t.Run("provider failure", func(t *testing.T) {
		t.Parallel()
		p := &mockProvider{}
		p.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, errors.New("card network down")).Once()
		c := billing.NewCheckout(p, catalog, testRedirects, logger.Noop())
		_, err := c.Create(context.Background(), "user-1", "starter")
		assert.ErrorIs(t, err, billing.ErrCheckoutCreation)
	})

	t.Run("panics without provider", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { billing.NewCheckout(nil, catalog, testRedirects, nil) })
	})
}
