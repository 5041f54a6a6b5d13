// Package notify delivers fire-and-forget user notifications. Delivery
// failures are logged and never reach the lifecycle code paths that trigger
// them.
package notify

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/topmart/Investment-Engine-Backend/internal/config"
)

// RecipientResolver maps a user ID to a delivery address. An empty address
// with a nil error means the user has no address on file; the notification
// is dropped silently.
type RecipientResolver func(ctx context.Context, userID string) (string, error)

// LogNotifier writes notifications to the application log. Used when SMTP
// is not configured, and as the default in tests.
type LogNotifier struct{}

// Notify logs the notification.
func (LogNotifier) Notify(_ context.Context, userID, subject, body string) {
	log.Printf("notify user %s: %s - %s", userID, subject, body)
}

// SMTPNotifier sends mail through a plain SMTP relay. Sends run in their
// own goroutine with a bounded retry so a slow relay can never block a
// state transition or a sweep.
type SMTPNotifier struct {
	cfg     config.SMTPConfig
	resolve RecipientResolver

	sendTimeout time.Duration
	attempts    uint64
}

// NewSMTPNotifier creates an SMTPNotifier using the given relay settings
// and recipient resolver.
func NewSMTPNotifier(cfg config.SMTPConfig, resolve RecipientResolver) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:         cfg,
		resolve:     resolve,
		sendTimeout: 15 * time.Second,
		attempts:    3,
	}
}

// Notify resolves the recipient and delivers the message asynchronously.
// The caller's context only covers recipient resolution; delivery detaches
// so cancellation of the triggering request cannot abort an in-flight send.
func (n *SMTPNotifier) Notify(ctx context.Context, userID, subject, body string) {
	addr, err := n.resolve(ctx, userID)
	if err != nil {
		log.Printf("notify user %s: failed to resolve recipient: %v", userID, err)
		return
	}
	if addr == "" {
		return
	}

	go n.deliver(addr, subject, body)
}

func (n *SMTPNotifier) deliver(addr, subject, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), n.sendTimeout)
	defer cancel()

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.cfg.From, addr, subject, body)

	backoff := retry.WithMaxRetries(n.attempts-1, retry.NewExponential(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(_ context.Context) error {
		return retry.RetryableError(n.send(addr, msg))
	})
	if err != nil {
		log.Printf("notify %s: delivery failed after retries: %v", addr, err)
	}
}

func (n *SMTPNotifier) send(addr, msg string) error {
	host := fmt.Sprintf("%s:%s", n.cfg.Host, n.cfg.Port)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	return smtp.SendMail(host, auth, n.cfg.From, []string{addr}, []byte(msg))
}
