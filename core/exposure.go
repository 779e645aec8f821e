package core

import (
	"context"
	"fmt"
)

// ExposeResult reports the outcome of an exposure attempt.
//
// Averted means the verification flag was found set on the authoritative
// re-check: the friend confirmed in time and nothing was published.
type ExposeResult struct {
	Averted bool   `json:"averted"`
	PostID  string `json:"postId,omitempty"`
}

// Expose fires the exposure trigger for the session owner's record.
//
// image carries the client-local blob uploaded by the owner's session;
// when nil the engine consults the ImageStore (the sweeper path).
//
// The verification flag is re-read from storage, never the cache,
// immediately before publishing: if verification landed first it wins,
// even if the caller already observed expiry. On publish failure the
// record and image are preserved so the owner can retry; the record is
// deleted only after a confirmed publish.
func (e *Engine) Expose(ctx context.Context, session *Session, image *Image, message string) (*ExposeResult, error) {
	if session == nil || session.Owner == "" {
		return nil, ErrHandleRequired
	}

	record, err := e.Store.GetTimer(ctx, session.Owner)
	if err != nil {
		return nil, err
	}

	if !IsExpired(record, e.clock()) {
		return nil, ErrNotExpired
	}

	credential, err := e.Sessions.Credential(session)
	if err != nil {
		return nil, err
	}

	if image == nil {
		image, err = e.Images.GetImage(ctx, record.ImageKey)
		if err != nil {
			return nil, err
		}
	}
	if len(image.Bytes) == 0 {
		return nil, ErrImageRequired
	}

	caption := message
	if caption == "" {
		caption = buildCaption(record.GoalDescription)
	}

	return e.publish(ctx, record, credential, image, caption)
}

// publish performs the authoritative check-then-act sequence shared by
// the session path and the sweeper.
func (e *Engine) publish(ctx context.Context, record *TimerRecord, credential string, image *Image, caption string) (*ExposeResult, error) {
	// Authoritative re-check directly before the side effect. The slow
	// work (image fetch, credential unseal) is already done, so the
	// window between this read and the publish call is minimal.
	fresh, err := e.Store.GetTimerByToken(ctx, record.ConfirmationToken)
	if err != nil {
		return nil, err
	}
	if fresh.IsVerified {
		e.log.Info(ctx, "exposure averted by verification", "owner", fresh.Owner)
		return &ExposeResult{Averted: true}, nil
	}

	postID, err := e.publisher.Publish(ctx, credential, image, caption)
	if err != nil {
		// Record and image stay put for a later retry.
		e.log.Error(ctx, "publish failed, timer preserved for retry",
			"owner", fresh.Owner, "error", err)
		return nil, err
	}

	e.log.Info(ctx, "timer exposed", "owner", fresh.Owner, "postId", postID)

	// Terminal state: the record is gone and the image is purged. A
	// failed delete is logged rather than surfaced; the publish already
	// happened and must not be repeated.
	if err := e.Store.DeleteTimer(ctx, fresh.Owner); err != nil {
		e.log.Error(ctx, "failed to delete timer after publish",
			"owner", fresh.Owner, "error", err)
	}
	e.purgeImage(ctx, fresh.ImageKey)

	return &ExposeResult{PostID: postID}, nil
}

func buildCaption(goal string) string {
	return fmt.Sprintf("I didn't finish my goal %q in time, so this photo is going out. Hold me accountable! #NakedDeadlines", goal)
}
