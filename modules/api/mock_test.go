package api_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/billing"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/generation"
)

type mockCheckout struct {
	mock.Mock
}

func (m *mockCheckout) Create(ctx context.Context, userID, plan string) (*billing.CheckoutSession, error) {
	args := m.Called(ctx, userID, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CheckoutSession), args.Error(1)
}

type mockReconciler struct {
	mock.Mock
}

func (m *mockReconciler) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return m.Called(ctx, payload, signature).Error(0)
}

func (m *mockReconciler) VerifySession(ctx context.Context, sessionID string) (*billing.VerifiedSubscription, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.VerifiedSubscription), args.Error(1)
}

func (m *mockReconciler) CurrentPlan(ctx context.Context, userID string) (billing.Plan, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(billing.Plan), args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, kind generation.Kind, text string) (string, error) {
	args := m.Called(ctx, kind, text)
	return args.String(0), args.Error(1)
}
