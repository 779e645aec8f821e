package core

import "time"

// Snapshot is the deterministic evaluation of a record at a point in
// time. ElapsedRatio is presentational only; decisions are made from
// Remaining and Expired.
type Snapshot struct {
	Remaining    time.Duration `json:"remaining"`
	ElapsedRatio float64       `json:"elapsedRatio"`
	Expired      bool          `json:"expired"`
}

// Evaluate computes the lifecycle snapshot for rec at now.
//
// Pure function of (rec, now): repeated calls with the same inputs
// produce the same result, and Expired is monotonic in now.
func Evaluate(rec *TimerRecord, now time.Time) Snapshot {
	return Snapshot{
		Remaining:    Remaining(rec, now),
		ElapsedRatio: ElapsedRatio(rec, now),
		Expired:      IsExpired(rec, now),
	}
}

// Remaining returns the time left before the deadline, floored at zero.
func Remaining(rec *TimerRecord, now time.Time) time.Duration {
	r := rec.Deadline.Sub(now)
	if r < 0 {
		return 0
	}
	return r
}

// ElapsedRatio returns the elapsed share of the window as a percentage
// clamped to [0, 100]. A zero-length window (createdAt == deadline)
// evaluates as 100 rather than dividing by zero.
func ElapsedRatio(rec *TimerRecord, now time.Time) float64 {
	total := rec.Deadline.Sub(rec.CreatedAt)
	if total <= 0 {
		return 100
	}
	ratio := float64(now.Sub(rec.CreatedAt)) / float64(total) * 100
	if ratio < 0 {
		return 0
	}
	if ratio > 100 {
		return 100
	}
	return ratio
}

// IsExpired reports whether the deadline has been reached. The instant
// now == deadline counts as expired.
func IsExpired(rec *TimerRecord, now time.Time) bool {
	return !now.Before(rec.Deadline)
}
