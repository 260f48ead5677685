// Package usage meters free actions per user over a rolling window.
//
// Free users get a fixed number of actions per window (three per seven days
// by default). Premium users are never metered. The check-and-consume step is
// atomic per user: the Store applies the policy inside a single critical
// section so concurrent requests for the same user never over-grant.
//
// Any storage failure is reported as a denial together with ErrStorage.
//
//	svc := usage.NewService(usage.NewMemoryStore())
//	dec, err := svc.CheckAndConsume(ctx, "user-1")
//	if err != nil {
//		// dec.Allowed is false here
//	}
package usage
