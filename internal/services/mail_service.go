package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
	"strconv"
)

type IMailService interface {
	SendOtpMail(to, code string) error
}

// SMTPConfig holds SMTP + branding config.
type SMTPConfig struct {
	Host     string // e.g. "smtp.gmail.com"
	Port     int    // e.g. 587 (STARTTLS)
	Username string
	Password string
	From     string // e.g. "no-reply@captionly.app"
	FromName string // e.g. "Captionly"
	AppName  string
}

func SMTPConfigFromEnv() SMTPConfig {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
		FromName: os.Getenv("SMTP_FROM_NAME"),
		AppName:  "Captionly",
	}
}

type smtpMailService struct {
	cfg    SMTPConfig
	otpTpl *template.Template
}

const otpHTMLTemplate = `<html><body style="font-family:sans-serif">
<h2>{{.AppName}} password reset</h2>
<p>Your one-time code is:</p>
<p style="font-size:28px;letter-spacing:4px"><b>{{.Code}}</b></p>
<p>The code expires in {{.TTLMinutes}} minutes. If you did not request a reset, ignore this mail.</p>
</body></html>`

func NewSMTPMailService(cfg SMTPConfig) (IMailService, error) {
	tpl, err := template.New("otp").Parse(otpHTMLTemplate)
	if err != nil {
		return nil, err
	}
	return &smtpMailService{cfg: cfg, otpTpl: tpl}, nil
}

func (s *smtpMailService) SendOtpMail(to, code string) error {

	var body bytes.Buffer
	if err := s.otpTpl.Execute(&body, map[string]any{
		"AppName":    s.cfg.AppName,
		"Code":       code,
		"TTLMinutes": 10,
	}); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s password reset code\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.cfg.FromName, s.cfg.From, to, s.cfg.AppName, body.String())

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}
