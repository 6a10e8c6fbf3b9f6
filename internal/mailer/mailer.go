package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"github.com/AlexTLDR/wedding/internal/logging"
)

// ErrDisabled is returned when sending while SES_FROM_EMAIL is not configured.
var ErrDisabled = errors.New("email sending is disabled")

// sesClient is the subset of the SES v2 client the mailer uses.
type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Mailer sends invitation links through Amazon SES.
type Mailer struct {
	client    sesClient
	fromEmail string
	fromName  string
	enabled   bool
}

// New creates a mailer. An empty fromEmail yields a disabled mailer.
func New(ctx context.Context, region, fromEmail, fromName string) (*Mailer, error) {
	if fromEmail == "" {
		logging.Log.Info("Email disabled: SES_FROM_EMAIL not configured")
		return &Mailer{}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logging.Log.Info("Email enabled", zap.String("from", fromEmail), zap.String("region", region))
	return newWithClient(sesv2.NewFromConfig(cfg), fromEmail, fromName), nil
}

func newWithClient(client sesClient, fromEmail, fromName string) *Mailer {
	return &Mailer{client: client, fromEmail: fromEmail, fromName: fromName, enabled: true}
}

// Enabled reports whether messages are actually sent.
func (m *Mailer) Enabled() bool {
	return m != nil && m.enabled
}

// Invitation is everything the invitation e-mail shows.
type Invitation struct {
	ToEmail     string
	GuestName   string
	Link        string
	CoupleNames string
	EventDate   string
	Venue       string
}

// SendInvitation e-mails the guest their personal RSVP link.
func (m *Mailer) SendInvitation(ctx context.Context, inv Invitation) error {
	if !m.Enabled() {
		return ErrDisabled
	}
	if inv.ToEmail == "" {
		return fmt.Errorf("guest %q has no email address", inv.GuestName)
	}

	subject, htmlBody, textBody := BuildInvitation(inv)
	return m.send(ctx, inv.ToEmail, subject, htmlBody, textBody)
}

// BuildInvitation renders the subject and the HTML and plain-text bodies.
func BuildInvitation(inv Invitation) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Запрошення на весілля: %s", inv.CoupleNames)

	details := inv.EventDate
	if inv.Venue != "" {
		details += ", " + inv.Venue
	}

	htmlBody = fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Georgia, serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<p>Дорогі %s!</p>
		<p>%s запрошують вас на своє весілля.</p>
		<p>%s</p>
		<p style="text-align: center;">
			<a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #7a8b6f; color: white; text-decoration: none; border-radius: 5px;">Відкрити запрошення</a>
		</p>
		<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
	</div>
</body>
</html>
`, html.EscapeString(inv.GuestName), html.EscapeString(inv.CoupleNames), html.EscapeString(details),
		html.EscapeString(inv.Link), html.EscapeString(inv.Link))

	textBody = fmt.Sprintf(`Дорогі %s!

%s запрошують вас на своє весілля.
%s

Ваше запрошення:
%s
`, inv.GuestName, inv.CoupleNames, details, inv.Link)

	return subject, htmlBody, textBody
}

func (m *Mailer) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := m.fromEmail
	if m.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	out, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	fields := []zap.Field{zap.String("to", toEmail)}
	if out != nil && out.MessageId != nil {
		fields = append(fields, zap.String("message_id", *out.MessageId))
	}
	logging.Log.Info("Invitation email sent", fields...)
	return nil
}
