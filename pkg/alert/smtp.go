package alert

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/loopwork/taskboard/pkg/config"
)

// SMTPMailer sends plain-text mail through the configured relay.
type SMTPMailer struct {
	addr   string
	sender string
	auth   smtp.Auth
}

// NewSMTPMailer dials the relay once to verify the credentials.
func NewSMTPMailer() (*SMTPMailer, error) {
	conf := config.GetConfig()
	addr := conf.SMTP.Host + ":" + conf.SMTP.Port

	conn, err := smtp.Dial(addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	auth := loginAuthFor(conf.SMTP.User, conf.SMTP.Password)
	if err := conn.Auth(auth); err != nil {
		return nil, err
	}
	return &SMTPMailer{
		addr:   addr,
		sender: conf.SMTP.Sender,
		auth:   auth,
	}, nil
}

func (m *SMTPMailer) SendMessageTo(_ context.Context, email, subject, body string) error {
	msg := []byte("To: " + email + "\r\n" +
		"From: " + m.sender + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body)
	return smtp.SendMail(m.addr, m.auth, m.sender, []string{email}, msg)
}

// Some relays only offer AUTH LOGIN without TLS, which net/smtp's PlainAuth
// refuses; this implements the LOGIN challenge flow directly.
type loginAuth struct {
	username, password string
}

func loginAuthFor(username, password string) smtp.Auth {
	return &loginAuth{username, password}
}

func (a *loginAuth) Start(_ *smtp.ServerInfo) (proto string, toServer []byte, err error) {
	return "LOGIN", nil, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}
	command := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(string(fromServer)), ":"))
	switch command {
	case "username":
		return []byte(a.username), nil
	case "password":
		return []byte(a.password), nil
	default:
		return nil, fmt.Errorf("unexpected server challenge: %s", command)
	}
}
