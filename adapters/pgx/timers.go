package pgx

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nakeddeadlines/deadline"
)

const timerColumns = `username, image_key, goal_description, deadline, created_at, friend_email, confirmation_token, is_verified`

func (a *Adapter) GetTimer(ctx context.Context, owner string) (*deadline.TimerRecord, error) {
	row := a.pool.QueryRow(ctx,
		`SELECT `+timerColumns+` FROM timers WHERE username = $1`, owner)

	rec, err := scanTimer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, deadline.ErrTimerNotFound
		}
		return nil, storeErr(err)
	}
	return rec, nil
}

func (a *Adapter) UpsertTimer(ctx context.Context, rec *deadline.TimerRecord) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO timers (`+timerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (username) DO UPDATE SET
			image_key = EXCLUDED.image_key,
			goal_description = EXCLUDED.goal_description,
			deadline = EXCLUDED.deadline,
			created_at = EXCLUDED.created_at,
			friend_email = EXCLUDED.friend_email,
			confirmation_token = EXCLUDED.confirmation_token,
			is_verified = EXCLUDED.is_verified`,
		rec.Owner, rec.ImageKey, rec.GoalDescription, rec.Deadline,
		rec.CreatedAt, rec.FriendEmail, rec.ConfirmationToken, rec.IsVerified)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (a *Adapter) DeleteTimer(ctx context.Context, owner string) error {
	if _, err := a.pool.Exec(ctx, `DELETE FROM timers WHERE username = $1`, owner); err != nil {
		return storeErr(err)
	}
	return nil
}

func (a *Adapter) GetTimerByToken(ctx context.Context, token string) (*deadline.TimerRecord, error) {
	row := a.pool.QueryRow(ctx,
		`SELECT `+timerColumns+` FROM timers WHERE confirmation_token = $1`, token)

	rec, err := scanTimer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, deadline.ErrTokenNotFound
		}
		return nil, storeErr(err)
	}
	return rec, nil
}

func (a *Adapter) SetVerified(ctx context.Context, token string) (*deadline.TimerRecord, error) {
	row := a.pool.QueryRow(ctx, `
		UPDATE timers SET is_verified = TRUE
		WHERE confirmation_token = $1
		RETURNING `+timerColumns, token)

	rec, err := scanTimer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, deadline.ErrTokenNotFound
		}
		return nil, storeErr(err)
	}
	return rec, nil
}

func (a *Adapter) ListExpired(ctx context.Context, now time.Time, limit int) ([]*deadline.TimerRecord, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT `+timerColumns+` FROM timers
		WHERE deadline <= $1 AND NOT is_verified
		ORDER BY deadline
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var records []*deadline.TimerRecord
	for rows.Next() {
		rec, err := scanTimer(rows)
		if err != nil {
			return nil, storeErr(err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return records, nil
}

func scanTimer(row pgx.Row) (*deadline.TimerRecord, error) {
	var rec deadline.TimerRecord
	err := row.Scan(&rec.Owner, &rec.ImageKey, &rec.GoalDescription, &rec.Deadline,
		&rec.CreatedAt, &rec.FriendEmail, &rec.ConfirmationToken, &rec.IsVerified)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
