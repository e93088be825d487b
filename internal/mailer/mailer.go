// Package mailer posts templated emails to the external dispatch API. Sends
// are best-effort: one attempt, failures logged and never surfaced to the
// request that triggered them.
package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type Mailer struct {
	apiURL string
	sender string
	http   *http.Client
	log    zerolog.Logger
}

func New(apiURL, sender string, log zerolog.Logger) *Mailer {
	return &Mailer{
		apiURL: apiURL,
		sender: sender,
		http:   &http.Client{Timeout: 15 * time.Second},
		log:    log,
	}
}

type message struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

func (m *Mailer) Send(recipient, subject, htmlBody string) error {
	payload, err := json.Marshal(message{
		Sender:    m.sender,
		Recipient: recipient,
		Subject:   subject,
		Body:      htmlBody,
	})
	if err != nil {
		return err
	}

	resp, err := m.http.Post(m.apiURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		m.log.Warn().Err(err).Str("recipient", recipient).Msg("email dispatch failed")
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		m.log.Warn().Int("status", resp.StatusCode).Str("recipient", recipient).Msg("email dispatch rejected")
		return fmt.Errorf("send email: status %d", resp.StatusCode)
	}

	m.log.Info().Str("recipient", recipient).Str("subject", subject).Msg("email sent")
	return nil
}

// SendRegistrationEmail confirms an event registration to the member.
func (m *Mailer) SendRegistrationEmail(memberEmail, memberName, eventTitle string, eventDate time.Time, eventVenue string) error {
	subject := fmt.Sprintf("Registration Confirmed: %s", eventTitle)
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>Your registration for <b>%s</b> is confirmed.</p><p>Date: %s<br>Venue: %s</p>",
		memberName, eventTitle, eventDate.Format("2006-01-02 15:04"), eventVenue,
	)
	return m.Send(memberEmail, subject, body)
}

// SendTempUserEmail mails a booth/volunteer their login link.
func (m *Mailer) SendTempUserEmail(email, fullName, userType, loginURL string, expiresAt time.Time) error {
	subject := "Your event staff access"
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>Your %s access is ready. Log in here:</p><p><a href=\"%s\">%s</a></p><p>This link expires at %s.</p>",
		fullName, userType, loginURL, loginURL, expiresAt.Format("2006-01-02 15:04:05"),
	)
	return m.Send(email, subject, body)
}
