package billing

import (
	"strings"
)

// Plan is a subscription tier.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanStarter  Plan = "starter"
	PlanUltimate Plan = "ultimate"
)

// ParsePlan accepts only purchasable plans. Free is not purchasable.
func ParsePlan(s string) (Plan, error) {
	switch p := Plan(strings.ToLower(strings.TrimSpace(s))); p {
	case PlanStarter, PlanUltimate:
		return p, nil
	default:
		return "", ErrUnknownPlan
	}
}

func (p Plan) String() string { return string(p) }

// purchasable is the lookup order for reverse price resolution.
var purchasable = []Plan{PlanStarter, PlanUltimate}

// Catalog maps purchasable plans to provider price ids.
type Catalog struct {
	prices map[Plan]string
}

func NewCatalog(starterPriceID, ultimatePriceID string) Catalog {
	return Catalog{prices: map[Plan]string{
		PlanStarter:  strings.TrimSpace(starterPriceID),
		PlanUltimate: strings.TrimSpace(ultimatePriceID),
	}}
}

// Distinct reports whether every configured price id maps to one plan.
func (c Catalog) Distinct() bool {
	seen := make(map[string]struct{}, len(c.prices))
	for _, price := range c.prices {
		if price == "" {
			continue
		}
		if _, dup := seen[price]; dup {
			return false
		}
		seen[price] = struct{}{}
	}
	return true
}

// PriceFor returns the price id for a purchasable plan.
func (c Catalog) PriceFor(p Plan) (string, error) {
	price, ok := c.prices[p]
	if !ok {
		return "", ErrUnknownPlan
	}
	if price == "" {
		return "", ErrPlanNotConfigured
	}
	return price, nil
}

// PlanForPrice is the reverse lookup. Unmatched prices map to PlanFree.
func (c Catalog) PlanForPrice(priceID string) Plan {
	if priceID == "" {
		return PlanFree
	}
	for _, p := range purchasable {
		if c.prices[p] == priceID {
			return p
		}
	}
	return PlanFree
}
