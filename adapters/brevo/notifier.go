// Package brevo implements deadline.Notifier on the Brevo
// transactional-email API.
package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nakeddeadlines/deadline"
)

const (
	DefaultBaseURL = "https://api.brevo.com"

	defaultTimeout = 15 * time.Second
)

type Config struct {
	APIKey      string
	BaseURL     string
	SenderName  string
	SenderEmail string
	Timeout     time.Duration
}

type Notifier struct {
	config Config
	client *http.Client
}

var _ deadline.Notifier = (*Notifier)(nil)

func New(config Config) *Notifier {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.SenderName == "" {
		config.SenderName = "Naked Deadlines"
	}
	if config.SenderEmail == "" {
		config.SenderEmail = "noreply@mail.nakeddeadlines.com"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Notifier{
		config: config,
		client: &http.Client{Timeout: timeout},
	}
}

type emailAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type smtpEmail struct {
	Sender      emailAddress   `json:"sender"`
	To          []emailAddress `json:"to"`
	Subject     string         `json:"subject"`
	TextContent string         `json:"textContent"`
}

// SendVerificationRequest emails the confirmation link to the friend.
func (n *Notifier) SendVerificationRequest(ctx context.Context, req deadline.VerificationRequest) (string, error) {
	email := smtpEmail{
		Sender: emailAddress{
			Name:  n.config.SenderName,
			Email: n.config.SenderEmail,
		},
		To:      []emailAddress{{Email: req.FriendEmail}},
		Subject: fmt.Sprintf("%s needs your help with their goal!", req.OwnerHandle),
		TextContent: fmt.Sprintf(`Hi there,

@%s has set a goal to complete %q by %s.

If they don't complete it in time, an embarrassing photo will be posted from their account!

You've been chosen as their accountability partner. When they complete their goal, please click the link below to verify it:

%s

Thank you for helping them stay accountable!

- The Naked Deadlines Team
`,
			req.OwnerHandle,
			req.GoalDescription,
			req.Deadline.Format("Monday, January 2, 2006 at 3:04 PM MST"),
			req.ConfirmationURL),
	}

	payload, err := json.Marshal(email)
	if err != nil {
		return "", fmt.Errorf("failed to encode email: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		n.config.BaseURL+"/v3/smtp/email", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", n.config.APIKey)

	resp, err := n.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("email request failed: status %d: %s", resp.StatusCode, body)
	}

	var result struct {
		MessageID string `json:"messageId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode email response: %w", err)
	}

	return result.MessageID, nil
}
