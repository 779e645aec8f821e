package core

import (
	"context"
	"errors"
	"time"

	"github.com/nakeddeadlines/deadline/pkg/logging"
)

const defaultSweepBatch = 50

// Sweeper is the server-scheduled counterpart to the browser-side
// expiry check: exposure eventually happens even when the owner's
// client is closed at the deadline.
//
// A record can only be swept when the engine can obtain both a live
// session credential for the owner and a server-side image blob. When
// either is missing the record is left for the owner-session path,
// which keeps the photo client-local by default.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
	batch    int
	log      logging.Logger
}

func NewSweeper(engine *Engine, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		engine:   engine,
		interval: interval,
		batch:    defaultSweepBatch,
		log:      engine.log.With("component", "sweeper"),
	}
}

// Run sweeps on the configured interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fired, err := s.Sweep(ctx)
			if err != nil {
				s.log.Error(ctx, "sweep failed", "error", err)
				continue
			}
			if fired > 0 {
				s.log.Info(ctx, "sweep complete", "exposed", fired)
			}
		}
	}
}

// Sweep runs a single pass and reports how many records were exposed.
//
// Each candidate goes through the same check-then-publish sequence as
// the owner-session path, so verification still wins any race and each
// record is published at most once.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	e := s.engine

	expired, err := e.Store.ListExpired(ctx, e.clock(), s.batch)
	if err != nil {
		return 0, err
	}

	fired := 0
	for _, record := range expired {
		if record.IsVerified {
			continue
		}

		session, err := e.Store.GetSessionByOwner(ctx, record.Owner)
		if err != nil {
			s.log.Debug(ctx, "no live session for owner, leaving record for client path",
				"owner", record.Owner)
			continue
		}

		credential, err := e.Sessions.Credential(session)
		if err != nil {
			s.log.Warn(ctx, "could not unseal credential", "owner", record.Owner, "error", err)
			continue
		}

		image, err := e.Images.GetImage(ctx, record.ImageKey)
		if err != nil {
			if errors.Is(err, ErrImageNotFound) {
				s.log.Debug(ctx, "image is client-local, leaving record for client path",
					"owner", record.Owner)
			} else {
				s.log.Warn(ctx, "image fetch failed", "owner", record.Owner, "error", err)
			}
			continue
		}

		result, err := e.publish(ctx, record, credential, image, buildCaption(record.GoalDescription))
		if err != nil {
			s.log.Error(ctx, "sweep publish failed, record preserved for retry",
				"owner", record.Owner, "error", err)
			continue
		}
		if !result.Averted {
			fired++
		}
	}

	return fired, nil
}
