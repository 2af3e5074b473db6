package txn

import (
	"context"

	"github.com/invoicebuild/invoicebuild/internal/sentry"
)

type sentryManager struct {
	next   Manager
	sentry *sentry.Service
}

// WithSentry wraps a Manager so every unit of work is recorded as a Sentry
// span. When Sentry is disabled next is returned as is.
func WithSentry(next Manager, svc *sentry.Service) Manager {
	if !svc.Enabled() {
		return next
	}
	return &sentryManager{next: next, sentry: svc}
}

func (m *sentryManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	span, spanCtx := m.sentry.StartDBSpan(ctx, "transaction", map[string]interface{}{
		"operation": "transaction",
	})
	defer sentry.FinishSpan(span)

	err := m.next.WithTx(spanCtx, fn)
	if err != nil {
		m.sentry.AddBreadcrumb("db", "unit of work rolled back", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return err
}
