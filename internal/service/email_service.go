package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/minishop-next/internal/config"
	"github.com/minishop-next/internal/constants"
	"github.com/minishop-next/internal/i18n"
	"github.com/minishop-next/internal/invoice"
	"github.com/minishop-next/internal/models"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// mailTransport 邮件投递通道
type mailTransport interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EmailService 邮件发送服务
type EmailService struct {
	cfg       *config.EmailConfig
	shopName  string
	transport mailTransport
}

// NewEmailService 按配置选择 SMTP 或 SendGrid 通道
func NewEmailService(cfg *config.EmailConfig, shopName string) *EmailService {
	s := &EmailService{cfg: cfg, shopName: shopName}
	if cfg == nil {
		return s
	}
	switch cfg.Transport {
	case constants.EmailTransportSendGrid:
		s.transport = &sendGridTransport{
			client:   sendgrid.NewSendClient(cfg.SendGridAPIKey),
			from:     cfg.From,
			fromName: cfg.FromName,
		}
	default:
		s.transport = &smtpTransport{cfg: cfg}
	}
	return s
}

// Enabled 判断邮件是否启用
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled && s.transport != nil
}

// SendWelcome 注册欢迎邮件
func (s *EmailService) SendWelcome(ctx context.Context, toEmail, locale string) error {
	subject := i18n.Sprintf(locale, "email.welcome.subject", s.shopName)
	body := i18n.Sprintf(locale, "email.welcome.body", toEmail, s.shopName)
	return s.send(ctx, toEmail, subject, body)
}

// SendPasswordReset 密码重置邮件
func (s *EmailService) SendPasswordReset(ctx context.Context, toEmail, resetLink string, expiresInMinutes int, locale string) error {
	subject := i18n.T(locale, "email.password_reset.subject")
	body := i18n.Sprintf(locale, "email.password_reset.body", expiresInMinutes, resetLink)
	return s.send(ctx, toEmail, subject, body)
}

// SendOrderPlaced 下单确认邮件，正文附带文本发票
func (s *EmailService) SendOrderPlaced(ctx context.Context, toEmail string, order *models.Order, locale string) error {
	var summary bytes.Buffer
	if err := (invoice.TextRenderer{}).Render(&summary, order); err != nil {
		return err
	}
	subject := i18n.Sprintf(locale, "email.order_placed.subject", order.ID)
	body := i18n.Sprintf(locale, "email.order_placed.body", order.ID, summary.String())
	return s.send(ctx, toEmail, subject, body)
}

func (s *EmailService) send(ctx context.Context, toEmail, subject, body string) error {
	if !s.Enabled() {
		return ErrEmailServiceDisabled
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}
	if err := s.transport.Send(ctx, toEmail, subject, body); err != nil {
		return wrapCause(ErrEmailSendFailed, err)
	}
	return nil
}

type sendGridTransport struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func (t *sendGridTransport) Send(ctx context.Context, to, subject, body string) error {
	resp, err := t.client.SendWithContext(ctx, buildSendGridMessage(t.from, t.fromName, to, subject, body))
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func buildSendGridMessage(from, fromName, to, subject, body string) *sgmail.SGMailV3 {
	return sgmail.NewSingleEmail(
		sgmail.NewEmail(fromName, from),
		subject,
		sgmail.NewEmail("", to),
		body,
		"<pre>"+escapeHTML(body)+"</pre>",
	)
}

func escapeHTML(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}

type smtpTransport struct {
	cfg *config.EmailConfig
}

func (t *smtpTransport) Send(_ context.Context, to, subject, body string) error {
	cfg := t.cfg
	if cfg.Host == "" || cfg.Port == 0 || cfg.From == "" {
		return fmt.Errorf("smtp host, port or from address missing")
	}
	msg := []byte(buildEmailMessage(buildFromAddress(cfg.From, cfg.FromName), to, subject, body))
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	var auth smtp.Auth
	if cfg.Username != "" || cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	var client *smtp.Client
	var err error
	if cfg.UseSSL {
		conn, dialErr := tls.Dial("tcp", addr, &tls.Config{ServerName: cfg.Host})
		if dialErr != nil {
			return dialErr
		}
		client, err = smtp.NewClient(conn, cfg.Host)
	} else {
		client, err = smtp.Dial(addr)
	}
	if err != nil {
		return err
	}
	defer client.Close()

	if cfg.UseTLS && !cfg.UseSSL {
		if err := client.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
			return err
		}
	}
	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	return sendSMTPData(client, cfg.From, to, msg)
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	return (&mail.Address{Name: name, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendSMTPData(client *smtp.Client, from, to string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
