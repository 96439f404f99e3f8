package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/minishop-next/internal/config"
	"github.com/minishop-next/internal/constants"
	"github.com/minishop-next/internal/models"
)

type capturedMail struct {
	to      string
	subject string
	body    string
}

type fakeMailTransport struct {
	sent []capturedMail
	err  error
}

func (f *fakeMailTransport) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, capturedMail{to: to, subject: subject, body: body})
	return nil
}

func newTestEmailService(transport mailTransport) *EmailService {
	return &EmailService{
		cfg:       &config.EmailConfig{Enabled: true, From: "shop@example.com"},
		shopName:  "minishop",
		transport: transport,
	}
}

func TestEmailServiceDisabled(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false}, "minishop")
	if svc.Enabled() {
		t.Fatalf("expected disabled service")
	}
	err := svc.SendWelcome(context.Background(), "buyer@example.com", "en")
	if !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("want ErrEmailServiceDisabled got %v", err)
	}
}

func TestNewEmailServiceSelectsTransport(t *testing.T) {
	sg := NewEmailService(&config.EmailConfig{Enabled: true, Transport: constants.EmailTransportSendGrid, SendGridAPIKey: "key"}, "minishop")
	if _, ok := sg.transport.(*sendGridTransport); !ok {
		t.Fatalf("expected sendgrid transport, got %T", sg.transport)
	}
	smtpSvc := NewEmailService(&config.EmailConfig{Enabled: true, Transport: constants.EmailTransportSMTP}, "minishop")
	if _, ok := smtpSvc.transport.(*smtpTransport); !ok {
		t.Fatalf("expected smtp transport, got %T", smtpSvc.transport)
	}
}

func TestSendPasswordResetUsesLinkAndTTL(t *testing.T) {
	transport := &fakeMailTransport{}
	svc := newTestEmailService(transport)

	link := "http://localhost:8080/reset/abc123"
	if err := svc.SendPasswordReset(context.Background(), "buyer@example.com", link, 10, "en"); err != nil {
		t.Fatalf("send reset failed: %v", err)
	}
	if len(transport.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(transport.sent))
	}
	got := transport.sent[0]
	if got.to != "buyer@example.com" || got.subject != "Reset your password" {
		t.Fatalf("unexpected mail header: %+v", got)
	}
	if !strings.Contains(got.body, link) || !strings.Contains(got.body, "10 minutes") {
		t.Fatalf("reset body missing link or ttl: %s", got.body)
	}
}

func TestSendOrderPlacedIncludesInvoiceLines(t *testing.T) {
	transport := &fakeMailTransport{}
	svc := newTestEmailService(transport)
	order := &models.Order{
		ID:          42,
		TotalAmount: models.MustMoney("25.00"),
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Items: []models.OrderItem{
			{Title: "Book", UnitPrice: models.MustMoney("10.00"), Quantity: 2, TotalPrice: models.MustMoney("20.00")},
			{Title: "Pen", UnitPrice: models.MustMoney("5.00"), Quantity: 1, TotalPrice: models.MustMoney("5.00")},
		},
	}
	if err := svc.SendOrderPlaced(context.Background(), "buyer@example.com", order, "en"); err != nil {
		t.Fatalf("send order placed failed: %v", err)
	}
	got := transport.sent[0]
	if got.subject != "Order #42 confirmed" {
		t.Fatalf("unexpected subject: %s", got.subject)
	}
	for _, want := range []string{"Book - 2 x 10.00", "Pen - 1 x 5.00", "Total price: 25.00"} {
		if !strings.Contains(got.body, want) {
			t.Fatalf("body missing %q: %s", want, got.body)
		}
	}
}

func TestEmailServiceRejectsInvalidRecipient(t *testing.T) {
	transport := &fakeMailTransport{}
	svc := newTestEmailService(transport)
	if err := svc.SendWelcome(context.Background(), "not-an-email", "en"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("want ErrInvalidEmail got %v", err)
	}
	if len(transport.sent) != 0 {
		t.Fatalf("invalid recipient should not be sent")
	}
}

func TestEmailServiceWrapsTransportFailure(t *testing.T) {
	svc := newTestEmailService(&fakeMailTransport{err: errors.New("connection refused")})
	err := svc.SendWelcome(context.Background(), "buyer@example.com", "en")
	if !errors.Is(err, ErrEmailSendFailed) || !errors.Is(err, ErrInfrastructure) {
		t.Fatalf("want wrapped send failure got %v", err)
	}
}

func TestBuildEmailMessageHeaders(t *testing.T) {
	msg := buildEmailMessage(buildFromAddress("shop@example.com", "Mini Shop"), "buyer@example.com", "Hello", "body text")
	for _, want := range []string{
		"From: \"Mini Shop\" <shop@example.com>\r\n",
		"To: buyer@example.com\r\n",
		"Subject: Hello\r\n",
		"Content-Type: text/plain; charset=UTF-8\r\n",
		"\r\n\r\nbody text",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildSendGridMessageEscapesHTML(t *testing.T) {
	msg := buildSendGridMessage("shop@example.com", "minishop", "buyer@example.com", "Hi", "a < b & c")
	if msg.From == nil || msg.From.Address != "shop@example.com" {
		t.Fatalf("unexpected from: %+v", msg.From)
	}
	if len(msg.Content) != 2 {
		t.Fatalf("expected plain and html content, got %d", len(msg.Content))
	}
	if msg.Content[1].Value != "<pre>a &lt; b &amp; c</pre>" {
		t.Fatalf("unexpected html content: %s", msg.Content[1].Value)
	}
}
