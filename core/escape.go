package core

import (
	"context"
	"fmt"
)

// EscapeResult reports the outcome of a chicken-out attempt.
//
// When Escaped is false, CheckoutURL points at a hosted payment page
// the owner must complete first.
type EscapeResult struct {
	Escaped      bool   `json:"escaped"`
	FreeFallback bool   `json:"freeFallback,omitempty"`
	CheckoutURL  string `json:"checkoutUrl,omitempty"`
}

// Escape voluntarily terminates the owner's timer before expiry.
//
// With a payment provider configured the fee must be paid first; after
// the configured number of failed attempts the escape falls through to
// free. That fallback is intentional, inherited behavior - it is logged
// loudly rather than hidden.
func (e *Engine) Escape(ctx context.Context, owner string) (*EscapeResult, error) {
	if owner == "" {
		return nil, ErrHandleRequired
	}

	record, err := e.Store.GetTimer(ctx, owner)
	if err != nil {
		return nil, err
	}

	// Escape is only reachable before expiry; afterwards the exposure
	// trigger owns the record.
	if IsExpired(record, e.clock()) {
		return nil, ErrTimerExpired
	}

	if e.payments == nil {
		if err := e.terminate(ctx, record); err != nil {
			return nil, err
		}
		return &EscapeResult{Escaped: true}, nil
	}

	status, err := e.Store.GetPaymentStatus(ctx, owner)
	if err != nil {
		return nil, err
	}

	if status.Paid {
		if err := e.terminate(ctx, record); err != nil {
			return nil, err
		}
		return &EscapeResult{Escaped: true}, nil
	}

	if status.Attempts >= e.maxPaymentAttempts {
		e.log.Warn(ctx, "payment failed repeatedly, falling through to free escape",
			"owner", owner, "attempts", status.Attempts)
		if err := e.terminate(ctx, record); err != nil {
			return nil, err
		}
		return &EscapeResult{Escaped: true, FreeFallback: true}, nil
	}

	url, err := e.payments.CreateCheckoutSession(ctx, owner)
	if err != nil {
		attempts, recErr := e.Store.RecordPaymentFailure(ctx, owner)
		if recErr != nil {
			return nil, fmt.Errorf("failed to record payment failure: %w", recErr)
		}
		if attempts >= e.maxPaymentAttempts {
			e.log.Warn(ctx, "payment failed repeatedly, falling through to free escape",
				"owner", owner, "attempts", attempts)
			if err := e.terminate(ctx, record); err != nil {
				return nil, err
			}
			return &EscapeResult{Escaped: true, FreeFallback: true}, nil
		}
		return nil, err
	}

	return &EscapeResult{CheckoutURL: url}, nil
}

// terminate is the shared terminal transition for the escape path:
// record deleted, image purged, payment ledger cleared.
func (e *Engine) terminate(ctx context.Context, record *TimerRecord) error {
	if err := e.Store.DeleteTimer(ctx, record.Owner); err != nil {
		return fmt.Errorf("failed to delete timer: %w", err)
	}
	e.purgeImage(ctx, record.ImageKey)
	if err := e.Store.ClearPaymentStatus(ctx, record.Owner); err != nil {
		e.log.Warn(ctx, "failed to clear payment status", "owner", record.Owner, "error", err)
	}
	e.log.Info(ctx, "owner escaped before deadline", "owner", record.Owner)
	return nil
}
