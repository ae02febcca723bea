package report

import (
	"context"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/vipulsaw/shiplane/internal/config"
	shiplaneerrors "github.com/vipulsaw/shiplane/pkg/errors"
)

// Mailer delivers run notifications over SMTP.
type Mailer struct {
	host string
	port int
	from string
}

// NewMailer creates a mailer from the plan's notify block.
func NewMailer(n *config.Notify) *Mailer {
	port := n.SMTPPort
	if port <= 0 {
		port = 25
	}
	return &Mailer{host: n.SMTPHost, port: port, from: n.From}
}

// Send delivers the payload to every recipient in one message. Any failure is
// wrapped in a DeliveryError; callers log it and move on, since delivery
// problems never change the recorded outcome of the run.
func (m *Mailer) Send(ctx context.Context, payload Payload, recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return shiplaneerrors.NewDeliveryError(strings.Join(recipients, ","), err)
	}
	if err := msg.To(recipients...); err != nil {
		return shiplaneerrors.NewDeliveryError(strings.Join(recipients, ","), err)
	}
	msg.Subject(payload.Subject())
	msg.SetBodyString(mail.TypeTextPlain, payload.Body())

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return shiplaneerrors.NewDeliveryError(strings.Join(recipients, ","), err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return shiplaneerrors.NewDeliveryError(strings.Join(recipients, ","), err)
	}

	return nil
}
