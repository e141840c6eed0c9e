// Package mail sends transactional emails over SMTP: the signup verification
// code and the password reset code. When no SMTP host is configured the sender
// runs in log-only mode, which keeps local development and tests working
// without a mail relay.
package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pirinku/go-recipe-backend/internal/config"
)

// Sender delivers HTML emails via a single SMTP relay.
type Sender struct {
	host     string
	port     string
	username string
	password string
	from     string

	// send is swappable in tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSender builds a Sender from SMTP configuration.
func NewSender(cfg config.SMTPConfig) *Sender {
	return &Sender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		send:     smtp.SendMail,
	}
}

var otpTemplate = template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome to Pirinku, {{.Username}}!</h2>
  <p>Thank you for creating an account. Please use the following code to verify your email address:</p>
  <div style="background-color: #f4f4f4; padding: 20px; text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 5px; margin: 20px 0;">
    {{.Code}}
  </div>
  <p>This code will expire in 10 minutes.</p>
  <p>If you didn't create an account, please ignore this email.</p>
  <hr style="margin: 30px 0; border: none; border-top: 1px solid #ddd;">
  <p style="color: #888; font-size: 12px;">This is an automated message, please do not reply.</p>
</div>
`))

var resetTemplate = template.Must(template.New("reset").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Hello {{.Username}},</h2>
  <p>We received a request to reset your password. Use the following code to continue:</p>
  <div style="background-color: #f4f4f4; padding: 20px; text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 5px; margin: 20px 0;">
    {{.Code}}
  </div>
  <p>This code will expire in 10 minutes.</p>
  <p>If you didn't request a password reset, please ignore this email.</p>
  <hr style="margin: 30px 0; border: none; border-top: 1px solid #ddd;">
  <p style="color: #888; font-size: 12px;">This is an automated message, please do not reply.</p>
</div>
`))

// SendOTPEmail sends the signup verification code.
func (s *Sender) SendOTPEmail(to, username, code string) error {
	return s.sendTemplate(to, "Verify Your Email - OTP Code", otpTemplate, username, code)
}

// SendPasswordResetEmail sends the password reset code.
func (s *Sender) SendPasswordResetEmail(to, username, code string) error {
	return s.sendTemplate(to, "Reset Your Password", resetTemplate, username, code)
}

func (s *Sender) sendTemplate(to, subject string, tpl *template.Template, username, code string) error {
	var body bytes.Buffer
	if err := tpl.Execute(&body, map[string]string{"Username": username, "Code": code}); err != nil {
		return fmt.Errorf("render email body: %w", err)
	}

	if s.host == "" {
		// Log-only mode. The code itself stays out of the logs.
		log.Info().
			Str("to", to).
			Str("subject", subject).
			Msg("smtp host not configured; email not sent")
		return nil
	}

	var msg strings.Builder
	msg.WriteString("From: " + s.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := s.host + ":" + s.port
	if err := s.send(addr, auth, s.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
