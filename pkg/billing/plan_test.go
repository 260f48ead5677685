package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/billing"
)

func TestParsePlan(t *testing.T) {
	t.Parallel()

	p, err := billing.ParsePlan("starter")
	require.NoError(t, err)
	assert.Equal(t, billing.PlanStarter, p)

	p, err = billing.ParsePlan(" Ultimate ")
	require.NoError(t, err)
	assert.Equal(t, billing.PlanUltimate, p)

	for _, in := range []string{"", "free", "enterprise"} {
		_, err := billing.ParsePlan(in)
		assert.ErrorIs(t, err, billing.ErrUnknownPlan, in)
	}
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	c := billing.NewCatalog("price_starter", "price_ultimate")

	price, err := c.PriceFor(billing.PlanStarter)
	require.NoError(t, err)
	assert.Equal(t, "price_starter", price)

	price, err = c.PriceFor(billing.PlanUltimate)
	require.NoError(t, err)
	assert.Equal(t, "price_ultimate", price)

	_, err = c.PriceFor(billing.PlanFree)
	assert.ErrorIs(t, err, billing.ErrUnknownPlan)

	assert.Equal(t, billing.PlanStarter, c.PlanForPrice("price_starter"))
	assert.Equal(t, billing.PlanUltimate, c.PlanForPrice("price_ultimate"))
	assert.Equal(t, billing.PlanFree, c.PlanForPrice("price_other"))
	assert.Equal(t, billing.PlanFree, c.PlanForPrice(""))

	_, err = billing.NewCatalog("", "price_ultimate").PriceFor(billing.PlanStarter)
	assert.ErrorIs(t, err, billing.ErrPlanNotConfigured)

	assert.True(t, c.Distinct())
	assert.True(t, billing.NewCatalog("", "").Distinct())
}

func TestCatalogSharedPrice(t *testing.T) {
	t.Parallel()

	c := billing.NewCatalog("price_same", " price_same ")
	assert.False(t, c.Distinct())
	for range 50 {
		require.Equal(t, billing.PlanStarter, c.PlanForPrice("price_same"))
	}
}
