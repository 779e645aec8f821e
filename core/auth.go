package core

import "context"

// SignInInput carries the payload handed over by the upstream OAuth
// flow: the authenticated handle and the publisher access token the
// provider issued for it. The engine trusts the identity as given.
type SignInInput struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	AccessToken string `json:"accessToken"`
}

// SignInResult contains the session and the raw bearer token.
type SignInResult struct {
	Identity Identity `json:"identity"`
	Session  *Session `json:"session"`
	Token    string   `json:"token"` // The raw token (not the hash)
}

// SignIn exchanges an upstream OAuth result for an engine session.
func (e *Engine) SignIn(ctx context.Context, input SignInInput, ipAddress, userAgent string) (*SignInResult, error) {
	identity := Identity{Handle: input.Handle, DisplayName: input.DisplayName}

	result, err := e.Sessions.Create(ctx, identity, input.AccessToken, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	return &SignInResult{
		Identity: identity,
		Session:  result.Session,
		Token:    result.Token,
	}, nil
}

// SignOut invalidates the current session
func (e *Engine) SignOut(ctx context.Context, token string) error {
	return e.Sessions.Destroy(ctx, token)
}

// GetSession retrieves session data by token
func (e *Engine) GetSession(ctx context.Context, token string) (*SessionData, error) {
	session, err := e.Sessions.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	return &SessionData{
		Identity: Identity{Handle: session.Owner},
		Session:  session,
	}, nil
}
