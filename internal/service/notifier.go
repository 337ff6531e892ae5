package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"pe-collective-backend/internal/domain"
	"pe-collective-backend/internal/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendgridEndpoint = "/v3/mail/send"

type sendGridNotifier struct {
	request   rest.Request
	fromEmail string
	fromName  string
	to        string
}

// NewSendGridNotifier emails `to` for each saved registration. host may be
// empty to use the public SendGrid API.
func NewSendGridNotifier(apiKey, host, fromEmail, fromName, to string) Notifier {
	req := sendgrid.GetRequest(apiKey, sendgridEndpoint, host)
	req.Method = "POST"
	return &sendGridNotifier{
		request:   req,
		fromEmail: fromEmail,
		fromName:  fromName,
		to:        to,
	}
}

func (n *sendGridNotifier) NotifyRegistration(ctx context.Context, sub *domain.Submission, row []string) error {
	name := strings.TrimSpace(sub.FirstName + " " + sub.LastName)
	if name == "" {
		name = "Someone"
	}
	subject := fmt.Sprintf("New PE Collective member: %s", name)

	var plain, rich strings.Builder
	rich.WriteString("<table>")
	for i, col := range domain.Columns {
		if i >= len(row) {
			break
		}
		fmt.Fprintf(&plain, "%s: %s\n", col, row[i])
		fmt.Fprintf(&rich, "<tr><th align=\"left\">%s</th><td>%s</td></tr>", col, html.EscapeString(row[i]))
	}
	rich.WriteString("</table>")

	from := mail.NewEmail(n.fromName, n.fromEmail)
	recipient := mail.NewEmail("", n.to)
	message := mail.NewSingleEmail(from, subject, recipient, plain.String(), rich.String())

	logger.ExternalServiceCall("sendgrid", "mail.send", "to", n.to)
	// Client.Send writes the body onto its request, so each send gets a copy.
	client := &sendgrid.Client{Request: n.request}
	response, err := client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "mail.send", err, "to", n.to)
	if err != nil {
		return fmt.Errorf("failed to send registration email: %w", err)
	}
	return nil
}
