package service

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/codewithsuzan/Momento/config"
	"github.com/codewithsuzan/Momento/internal/util"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// EmailService sends transactional mail over SMTP. When SMTP is not
// configured every send becomes a logged no-op so the rest of the flow
// still works in development.
type EmailService struct {
	smtpHost  string
	smtpPort  int
	username  string
	password  string
	jwtSecret string
}

func NewEmailService() *EmailService {
	return &EmailService{
		smtpHost:  config.AppConfig.SMTPHost,
		smtpPort:  config.AppConfig.SMTPPort,
		username:  config.AppConfig.SMTPUsername,
		password:  config.AppConfig.SMTPPassword,
		jwtSecret: config.AppConfig.JWTSecret,
	}
}

func (s *EmailService) SendWelcomeEmail(email, username string) error {
	subject := "Welcome to Momento"
	body := fmt.Sprintf(`
	<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
		<h2>Welcome, %s!</h2>
		<p>Your Momento account is ready. Share your first photo and start
		following people to fill up your feed.</p>
		<p><a href="%s">Open Momento</a></p>
	</div>
	`, username, config.AppConfig.FrontendURL)

	return s.sendEmail(email, subject, body)
}

func (s *EmailService) SendPasswordResetEmail(email string) error {
	token, err := s.generatePasswordResetToken(email)
	if err != nil {
		util.Logger.Error("failed to generate password reset token", zap.Error(err))
		return fmt.Errorf("failed to generate password reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", config.AppConfig.FrontendURL, token)

	subject := "Reset your Momento password"
	body := fmt.Sprintf(`
	<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
		<h2>Password reset request</h2>
		<p>We received a request to reset your password. If this wasn't you,
		you can safely ignore this email.</p>
		<p><a href="%s">Reset password</a></p>
		<p>Or copy this link into your browser:</p>
		<p>%s</p>
		<p>The link expires in one hour.</p>
	</div>
	`, resetLink, resetLink)

	s.sendEmailAsync(email, subject, body)
	return nil
}

func (s *EmailService) sendEmailAsync(to, subject, body string) {
	go func() {
		if err := s.sendEmail(to, subject, body); err != nil {
			util.Logger.Error("failed to send email", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	if s.smtpHost == "" || s.username == "" || s.password == "" {
		util.Logger.Warn("SMTP not configured, skipping email",
			zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = true
	d.TLSConfig = &tls.Config{InsecureSkipVerify: true}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	util.Logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (s *EmailService) generatePasswordResetToken(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(1 * time.Hour).Unix(),
		"type":  "password_reset",
	})
	return token.SignedString([]byte(s.jwtSecret))
}

// VerifyPasswordResetToken validates the reset token and returns the email
// it was issued for.
func (s *EmailService) VerifyPasswordResetToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	email, ok := claims["email"].(string)
	if !ok {
		return "", fmt.Errorf("invalid token: missing email claim")
	}
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "password_reset" {
		return "", fmt.Errorf("invalid token type")
	}
	return email, nil
}
