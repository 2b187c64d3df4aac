package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"gopkg.in/gomail.v2"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/logger"
	"lebs-backend/internal/storage"
)

// Mailer is the delivery backend behind EmailService: direct SMTP or the
// standalone relay service.
type Mailer interface {
	Send(ctx context.Context, to, subject, body, attachmentKey string) error
}

const (
	emailMaxAttempts  = 3
	emailRetryBackoff = 2 * time.Second
)

type emailService struct {
	mailer  Mailer
	backoff time.Duration
}

func NewEmailService(mailer Mailer) EmailService {
	return &emailService{mailer: mailer, backoff: emailRetryBackoff}
}

func (s *emailService) SendOTP(ctx context.Context, email, name, code string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour one-time login code is: %s\n\nThe code expires in 10 minutes. If you did not try to log in, you can ignore this message.\n\nLaboratory Equipment Borrowing System", name, code)
	return s.sendWithRetry(ctx, email, "Your login code", body, "")
}

func (s *emailService) SendVerificationCode(ctx context.Context, email, name, code string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour account verification code is: %s\n\nEnter this code to activate your staff account.\n\nLaboratory Equipment Borrowing System", name, code)
	return s.sendWithRetry(ctx, email, "Verify your account", body, "")
}

func (s *emailService) SendPasswordResetCode(ctx context.Context, email, name, code string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour password reset code is: %s\n\nIf you did not request a reset, you can ignore this message.\n\nLaboratory Equipment Borrowing System", name, code)
	return s.sendWithRetry(ctx, email, "Password reset code", body, "")
}

func (s *emailService) SendBorrowReceipt(ctx context.Context, receipt *domain.BorrowReceipt, slipPath string) error {
	var lines bytes.Buffer
	for _, l := range receipt.Lines {
		fmt.Fprintf(&lines, "  - %s x%d (%s)\n", l.ItemName, l.Quantity, l.BeforeCondition)
	}
	body := fmt.Sprintf("Hello %s,\n\nYour borrow slip %s has been issued on %s.\n\nItems:\n%s\nSubject: %s\nRoom: %s\n\nPlease return the items in the condition they were issued.\n\nLaboratory Equipment Borrowing System",
		receipt.Borrower.FullName(), receipt.ReferenceNo, receipt.IssuedOn.Format("Jan 2, 2006 3:04 PM"), lines.String(), receipt.Subject, receipt.Room)
	return s.sendWithRetry(ctx, receipt.Borrower.Email, "Borrow slip "+receipt.ReferenceNo, body, slipPath)
}

func (s *emailService) SendReturnReceipt(ctx context.Context, receipt *domain.ReturnReceipt, slipPath string) error {
	var lines bytes.Buffer
	for _, item := range receipt.Items {
		if item.Credited < item.Claimed {
			fmt.Fprintf(&lines, "  - %s x%d of %d claimed (%s)\n", item.ItemName, item.Credited, item.Claimed, item.Condition)
		} else {
			fmt.Fprintf(&lines, "  - %s x%d (%s)\n", item.ItemName, item.Credited, item.Condition)
		}
	}
	body := fmt.Sprintf("Hello %s,\n\nYour return %s was recorded on %s.\n\nItems returned:\n%s\nLaboratory Equipment Borrowing System",
		receipt.Borrower.FullName(), receipt.ReferenceNo, receipt.ReturnedOn.Format("Jan 2, 2006 3:04 PM"), lines.String())
	return s.sendWithRetry(ctx, receipt.Borrower.Email, "Return receipt "+receipt.ReferenceNo, body, slipPath)
}

func (s *emailService) sendWithRetry(ctx context.Context, to, subject, body, attachmentKey string) error {
	var err error
	for attempt := 1; attempt <= emailMaxAttempts; attempt++ {
		if err = s.mailer.Send(ctx, to, subject, body, attachmentKey); err == nil {
			return nil
		}
		logger.Warn("email delivery attempt failed", "to", to, "subject", subject, "attempt", attempt, "error", err)
		if attempt < emailMaxAttempts {
			select {
			case <-time.After(time.Duration(attempt) * s.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("email delivery failed after %d attempts: %w", emailMaxAttempts, err)
}

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	files    storage.FileStore
}

func NewSMTPMailer(host string, port int, username, password, from string, files storage.FileStore) Mailer {
	return &smtpMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		files:    files,
	}
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, body, attachmentKey string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	if attachmentKey != "" {
		msg.Attach(m.files.Path(attachmentKey))
	}

	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

type relayMailer struct {
	url    string
	client *http.Client
	files  storage.FileStore
}

// NewRelayMailer posts mail to the standalone relay service, which holds
// the provider credentials so the main server never sees them.
func NewRelayMailer(url string, files storage.FileStore) Mailer {
	return &relayMailer{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		files:  files,
	}
}

type relayPayload struct {
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	AttachmentName string `json:"attachment_name,omitempty"`
	AttachmentB64  string `json:"attachment_b64,omitempty"`
}

func (m *relayMailer) Send(ctx context.Context, to, subject, body, attachmentKey string) error {
	payload := relayPayload{To: to, Subject: subject, Body: body}
	if attachmentKey != "" {
		f, err := m.files.Open(attachmentKey)
		if err != nil {
			return fmt.Errorf("failed to open attachment: %w", err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to read attachment: %w", err)
		}
		payload.AttachmentName = filepath.Base(attachmentKey)
		payload.AttachmentB64 = base64.StdEncoding.EncodeToString(data)
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url+"/send", bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relay returned status %d", resp.StatusCode)
	}
	return nil
}
