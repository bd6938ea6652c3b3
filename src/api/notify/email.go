package notify

import (
	"errors"
	"fmt"
	"log"
	"net/smtp"
)

// ErrSMTPNotConfigured means no credentials were provided; notification mail
// is skipped, OTP delivery reports Unavailable.
var ErrSMTPNotConfigured = errors.New("smtp not configured")

// SendEmail delivers one plain-text message per recipient over STARTTLS.
// Exposed so the OTP flow can send synchronously and observe the error.
func (n *Notifier) SendEmail(to []string, subject, body string) error {
	if n.cfg.SMTPUser == "" || n.cfg.SMTPPass == "" {
		log.Printf("notify: %v, skipping email %q", ErrSMTPNotConfigured, subject)
		return ErrSMTPNotConfigured
	}
	if len(to) == 0 {
		log.Printf("notify: no recipients for email %q", subject)
		return nil
	}

	addr := n.cfg.SMTPHost + ":" + n.cfg.SMTPPort
	auth := smtp.PlainAuth("", n.cfg.SMTPUser, n.cfg.SMTPPass, n.cfg.SMTPHost)

	var lastErr error
	sent := 0
	for _, rcpt := range to {
		msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s",
			n.cfg.EmailFrom, rcpt, subject, body)
		if err := smtp.SendMail(addr, auth, n.cfg.EmailFrom, []string{rcpt}, []byte(msg)); err != nil {
			log.Printf("notify: send to %s: %v", rcpt, err)
			lastErr = err
			continue
		}
		sent++
	}
	if sent > 0 {
		log.Printf("notify: email %q sent to %d recipients", subject, sent)
	}
	return lastErr
}
