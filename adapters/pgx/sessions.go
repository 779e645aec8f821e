package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/nakeddeadlines/deadline"
)

const sessionColumns = `id, username, token_hash, publisher_credential, ip_address, user_agent, expires_at, created_at, updated_at`

func (a *Adapter) CreateSession(ctx context.Context, session *deadline.Session) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		session.ID, session.Owner, session.TokenHash, session.Credential,
		session.IPAddress, session.UserAgent,
		session.ExpiresAt, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (a *Adapter) GetSessionByHash(ctx context.Context, tokenHash string) (*deadline.Session, error) {
	row := a.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token_hash = $1`, tokenHash)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, deadline.ErrSessionNotFound
		}
		return nil, storeErr(err)
	}
	return session, nil
}

func (a *Adapter) GetSessionByOwner(ctx context.Context, owner string) (*deadline.Session, error) {
	row := a.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE username = $1 AND expires_at > now()
		ORDER BY created_at DESC
		LIMIT 1`, owner)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, deadline.ErrSessionNotFound
		}
		return nil, storeErr(err)
	}
	return session, nil
}

func (a *Adapter) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	if _, err := a.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash); err != nil {
		return storeErr(err)
	}
	return nil
}

func (a *Adapter) DeleteExpiredSessions(ctx context.Context) (int, error) {
	tag, err := a.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, storeErr(err)
	}
	return int(tag.RowsAffected()), nil
}

func scanSession(row pgx.Row) (*deadline.Session, error) {
	var session deadline.Session
	err := row.Scan(&session.ID, &session.Owner, &session.TokenHash, &session.Credential,
		&session.IPAddress, &session.UserAgent,
		&session.ExpiresAt, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &session, nil
}
