package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestDisabledMailer(t *testing.T) {
	m, err := New(context.Background(), "eu-central-1", "", "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if m.Enabled() {
		t.Fatalf("mailer without from address must be disabled")
	}
	if err := m.SendInvitation(context.Background(), Invitation{ToEmail: "a@example.com"}); !errors.Is(err, ErrDisabled) {
		t.Errorf("SendInvitation() error = %v, want ErrDisabled", err)
	}
}

func TestSendInvitation(t *testing.T) {
	fake := &fakeSES{}
	m := newWithClient(fake, "rsvp@example.com", "Олександр & Катерина")

	err := m.SendInvitation(context.Background(), Invitation{
		ToEmail:     "guest@example.com",
		GuestName:   "Марія <Коваль>",
		Link:        "https://example.com/Invitation/abc/",
		CoupleNames: "Олександр & Катерина",
		EventDate:   "20 червня 2026, 15:00",
		Venue:       "Садиба",
	})
	if err != nil {
		t.Fatalf("SendInvitation() error = %v", err)
	}
	if len(fake.inputs) != 1 {
		t.Fatalf("expected one SES call, got %d", len(fake.inputs))
	}

	in := fake.inputs[0]
	if got := aws.ToString(in.FromEmailAddress); got != "Олександр & Катерина <rsvp@example.com>" {
		t.Errorf("From = %q", got)
	}
	if in.Destination.ToAddresses[0] != "guest@example.com" {
		t.Errorf("To = %v", in.Destination.ToAddresses)
	}
	htmlBody := aws.ToString(in.Content.Simple.Body.Html.Data)
	if !strings.Contains(htmlBody, "Марія &lt;Коваль&gt;") {
		t.Errorf("guest name not escaped in HTML body")
	}
	if !strings.Contains(aws.ToString(in.Content.Simple.Body.Text.Data), "https://example.com/Invitation/abc/") {
		t.Errorf("link missing from text body")
	}
}

func TestSendInvitationErrors(t *testing.T) {
	fake := &fakeSES{err: errors.New("throttled")}
	m := newWithClient(fake, "rsvp@example.com", "")

	if err := m.SendInvitation(context.Background(), Invitation{GuestName: "Без пошти"}); err == nil {
		t.Errorf("expected error for missing address")
	}
	if len(fake.inputs) != 0 {
		t.Errorf("SES called for a guest without email")
	}

	err := m.SendInvitation(context.Background(), Invitation{ToEmail: "guest@example.com"})
	if err == nil || !strings.Contains(err.Error(), "throttled") {
		t.Errorf("SendInvitation() error = %v", err)
	}
}
