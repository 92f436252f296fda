package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

// SendVerificationCode delivers the one-time code used to verify an account.
func (s *SMTPEmailService) SendVerificationCode(to, code string, expiresMinutes int) error {
	subject := "Your Calmora verification code"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Welcome to Calmora</h2>
			<p>Your verification code is:</p>
			<p style="font-size:24px;font-weight:bold;letter-spacing:4px">%s</p>
			<p>The code expires in %d minutes.</p>
			<p>If you didn't create an account, please ignore this email.</p>
		</body>
		</html>
	`, code, expiresMinutes)

	plainBody := fmt.Sprintf(`Welcome to Calmora

Your verification code is: %s

The code expires in %d minutes.

If you didn't create an account, please ignore this email.
`, code, expiresMinutes)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

// SendNotification delivers a plain notification email.
func (s *SMTPEmailService) SendNotification(to, subject, body string) error {
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<p>%s</p>
		</body>
		</html>
	`, body)
	return s.sendEmail(to, subject, htmlBody, body)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
