package core

import "context"

// LookupByToken fetches the record addressed by a confirmation token.
// Matching is exact and case-sensitive; possession of the token is the
// only credential required.
func (e *Engine) LookupByToken(ctx context.Context, token string) (*TimerStatus, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	record, err := e.Store.GetTimerByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return &TimerStatus{
		Timer:    record,
		Snapshot: Evaluate(record, e.clock()),
	}, nil
}

// Verify flips the record's verification flag. The flag is monotonic
// false->true; verifying an already-verified record is a no-op success
// so retries and double-clicks are safe. Once set, the exposure trigger
// can never fire for this record.
func (e *Engine) Verify(ctx context.Context, token string) (*TimerStatus, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	record, err := e.Store.GetTimerByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if record.IsVerified {
		return &TimerStatus{
			Timer:    record,
			Snapshot: Evaluate(record, e.clock()),
		}, nil
	}

	updated, err := e.Store.SetVerified(ctx, token)
	if err != nil {
		return nil, err
	}

	e.log.Info(ctx, "timer verified", "owner", updated.Owner)

	return &TimerStatus{
		Timer:    updated,
		Snapshot: Evaluate(updated, e.clock()),
	}, nil
}
