package core

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// CreateTimerInput contains the owner-supplied fields for a new timer.
// Deadline is an absolute RFC 3339 timestamp.
type CreateTimerInput struct {
	ImageKey        string    `json:"imageKey"`
	GoalDescription string    `json:"goalDescription"`
	Deadline        time.Time `json:"deadline"`
	FriendEmail     string    `json:"friendEmail"`
}

// CreateTimerResult reports the stored record plus the outcome of the
// notification attempt. A failed email does not fail creation: the
// owner is told to share the confirmation link manually.
type CreateTimerResult struct {
	Timer           *TimerRecord `json:"timer"`
	ConfirmationURL string       `json:"confirmationUrl"`
	EmailSent       bool         `json:"emailSent"`
	EmailError      string       `json:"emailError,omitempty"`
}

// CreateTimer validates input, generates the confirmation token, and
// persists the record, superseding any prior record for the owner.
func (e *Engine) CreateTimer(ctx context.Context, owner Identity, input CreateTimerInput) (*CreateTimerResult, error) {
	if owner.Handle == "" {
		return nil, ErrHandleRequired
	}
	if input.ImageKey == "" {
		return nil, ErrImageKeyRequired
	}
	if input.GoalDescription == "" {
		return nil, ErrGoalRequired
	}
	if input.FriendEmail == "" {
		return nil, ErrFriendEmailRequired
	}
	if _, err := mail.ParseAddress(input.FriendEmail); err != nil {
		return nil, ErrInvalidEmail
	}
	deadline := input.Deadline
	if deadline.IsZero() {
		return nil, ErrDeadlineRequired
	}

	now := e.clock()
	// createdAt < deadline, strictly
	if !deadline.After(now) {
		return nil, ErrDeadlineNotFuture
	}

	record := &TimerRecord{
		Owner:             owner.Handle,
		ImageKey:          input.ImageKey,
		GoalDescription:   input.GoalDescription,
		Deadline:          deadline,
		CreatedAt:         now,
		FriendEmail:       input.FriendEmail,
		ConfirmationToken: uuid.NewString(),
		IsVerified:        false,
	}

	if err := e.Store.UpsertTimer(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save timer: %w", err)
	}

	confirmationURL := e.ConfirmationURL(record.ConfirmationToken)

	result := &CreateTimerResult{
		Timer:           record,
		ConfirmationURL: confirmationURL,
	}

	if e.notifier == nil {
		return result, nil
	}

	_, err := e.notifier.SendVerificationRequest(ctx, VerificationRequest{
		FriendEmail:     record.FriendEmail,
		ConfirmationURL: confirmationURL,
		GoalDescription: record.GoalDescription,
		Deadline:        record.Deadline,
		OwnerHandle:     record.Owner,
	})
	if err != nil {
		e.log.Warn(ctx, "verification email failed, owner must share link manually",
			"owner", record.Owner, "error", err)
		result.EmailError = err.Error()
		return result, nil
	}

	result.EmailSent = true
	return result, nil
}

// ActiveTimer returns the owner's record with its current evaluation.
func (e *Engine) ActiveTimer(ctx context.Context, owner string) (*TimerStatus, error) {
	if owner == "" {
		return nil, ErrHandleRequired
	}

	record, err := e.Store.GetTimer(ctx, owner)
	if err != nil {
		return nil, err
	}

	return &TimerStatus{
		Timer:    record,
		Snapshot: Evaluate(record, e.clock()),
	}, nil
}

// DeleteTimer removes the owner's record and purges the image blob if a
// server-side copy exists. Used for post-verification cleanup.
func (e *Engine) DeleteTimer(ctx context.Context, owner string) error {
	if owner == "" {
		return ErrHandleRequired
	}

	record, err := e.Store.GetTimer(ctx, owner)
	if err != nil {
		return err
	}

	if err := e.Store.DeleteTimer(ctx, owner); err != nil {
		return fmt.Errorf("failed to delete timer: %w", err)
	}

	e.purgeImage(ctx, record.ImageKey)
	return nil
}

// ConfirmationURL builds the public verification link for a token.
// The token is the entire addressing and authorization mechanism.
func (e *Engine) ConfirmationURL(token string) string {
	return fmt.Sprintf("%s/confirm/%s", e.baseURL, token)
}

func (e *Engine) purgeImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := e.Images.PurgeImage(ctx, key); err != nil {
		e.log.Warn(ctx, "image purge failed", "imageKey", key, "error", err)
	}
}
