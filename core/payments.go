package core

import "context"

// CreateCheckout starts a hosted checkout session for the escape fee.
func (e *Engine) CreateCheckout(ctx context.Context, owner string) (string, error) {
	if owner == "" {
		return "", ErrHandleRequired
	}
	if e.payments == nil {
		return "", ErrPaymentFailed
	}
	return e.payments.CreateCheckoutSession(ctx, owner)
}

// GetPaymentStatus reads the owner's escape-fee ledger row.
func (e *Engine) GetPaymentStatus(ctx context.Context, owner string) (*PaymentStatus, error) {
	if owner == "" {
		return nil, ErrHandleRequired
	}
	return e.Store.GetPaymentStatus(ctx, owner)
}

// ConfirmPayment marks the owner's escape fee as paid. Called from the
// checkout success callback.
func (e *Engine) ConfirmPayment(ctx context.Context, owner string) error {
	if owner == "" {
		return ErrHandleRequired
	}
	e.log.Info(ctx, "escape payment confirmed", "owner", owner)
	return e.Store.MarkPaid(ctx, owner)
}

// CancelPayment records a failed or abandoned checkout attempt.
func (e *Engine) CancelPayment(ctx context.Context, owner string) error {
	if owner == "" {
		return ErrHandleRequired
	}
	attempts, err := e.Store.RecordPaymentFailure(ctx, owner)
	if err != nil {
		return err
	}
	e.log.Info(ctx, "escape payment attempt failed", "owner", owner, "attempts", attempts)
	return nil
}

// ClearPaymentStatus removes the owner's ledger row after processing.
func (e *Engine) ClearPaymentStatus(ctx context.Context, owner string) error {
	if owner == "" {
		return ErrHandleRequired
	}
	return e.Store.ClearPaymentStatus(ctx, owner)
}
