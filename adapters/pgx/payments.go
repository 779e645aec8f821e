package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/nakeddeadlines/deadline"
)

func (a *Adapter) GetPaymentStatus(ctx context.Context, owner string) (*deadline.PaymentStatus, error) {
	row := a.pool.QueryRow(ctx, `
		SELECT username, paid, attempts, updated_at
		FROM payment_status WHERE username = $1`, owner)

	var status deadline.PaymentStatus
	err := row.Scan(&status.Owner, &status.Paid, &status.Attempts, &status.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No row means no attempts yet; that's a zero status, not an error.
			return &deadline.PaymentStatus{Owner: owner}, nil
		}
		return nil, storeErr(err)
	}
	return &status, nil
}

func (a *Adapter) MarkPaid(ctx context.Context, owner string) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO payment_status (username, paid, attempts, updated_at)
		VALUES ($1, TRUE, 0, now())
		ON CONFLICT (username) DO UPDATE SET paid = TRUE, updated_at = now()`, owner)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (a *Adapter) RecordPaymentFailure(ctx context.Context, owner string) (int, error) {
	row := a.pool.QueryRow(ctx, `
		INSERT INTO payment_status (username, paid, attempts, updated_at)
		VALUES ($1, FALSE, 1, now())
		ON CONFLICT (username) DO UPDATE SET
			attempts = payment_status.attempts + 1,
			updated_at = now()
		RETURNING attempts`, owner)

	var attempts int
	if err := row.Scan(&attempts); err != nil {
		return 0, storeErr(err)
	}
	return attempts, nil
}

func (a *Adapter) ClearPaymentStatus(ctx context.Context, owner string) error {
	if _, err := a.pool.Exec(ctx, `DELETE FROM payment_status WHERE username = $1`, owner); err != nil {
		return storeErr(err)
	}
	return nil
}
