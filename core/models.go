package core

import "time"

// TimerRecord is the single row of state behind one deadline.
//
// There is at most one active record per owner; creating a new timer
// supersedes any prior record for the same owner.
type TimerRecord struct {
	Owner             string    `json:"username"`
	ImageKey          string    `json:"imageKey"`
	GoalDescription   string    `json:"goalDescription"`
	Deadline          time.Time `json:"deadline"`
	CreatedAt         time.Time `json:"createdAt"`
	FriendEmail       string    `json:"friendEmail"`
	ConfirmationToken string    `json:"confirmationToken"`
	IsVerified        bool      `json:"isVerified"`
}

// Identity is the authenticated owner of the current request.
//
// This carries exactly the fields the engine needs; nothing is probed
// off an external session object at call sites.
type Identity struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName,omitempty"`
}

// Session represents an active owner login session.
//
// Credential holds the owner's publisher access token, sealed at rest.
// It is unsealed only on the publish path.
type Session struct {
	ID         string    `json:"id"`
	Owner      string    `json:"owner"`
	TokenHash  string    `json:"-"` // Never expose in JSON (security!)
	Credential []byte    `json:"-"` // Never expose in JSON
	IPAddress  string    `json:"ipAddress"`
	UserAgent  string    `json:"userAgent"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SessionData combines identity and session info
// The model returned to clients
type SessionData struct {
	Identity Identity `json:"identity"`
	Session  *Session `json:"session"`
}

// PaymentStatus is the per-owner escape-fee ledger row.
type PaymentStatus struct {
	Owner     string    `json:"username"`
	Paid      bool      `json:"paid"`
	Attempts  int       `json:"attempts"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Image is an in-memory media blob handed to the Publisher.
type Image struct {
	Bytes       []byte
	ContentType string
	Name        string
}

// TimerStatus pairs a record with its lifecycle evaluation at read time.
type TimerStatus struct {
	Timer    *TimerRecord `json:"timer"`
	Snapshot Snapshot     `json:"snapshot"`
}
