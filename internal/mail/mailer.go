package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Mailer 带外投递临时口令。投递失败要往上抛，不允许静默丢弃。
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, token string, expiresAt time.Time) error
}

type SMTPOpts struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	opts SMTPOpts
}

func NewSMTP(opts SMTPOpts) *SMTPMailer { return &SMTPMailer{opts: opts} }

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, token string, expiresAt time.Time) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.opts.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject("Password recovery")
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"Your temporary password is: %s\n\nIt expires at %s. Use it once to set a new password.",
		token, expiresAt.Format(time.RFC1123),
	))

	client, err := gomail.NewClient(m.opts.Host,
		gomail.WithPort(m.opts.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.opts.Username),
		gomail.WithPassword(m.opts.Password),
	)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// LogMailer 开发环境用：只写日志不外发，token 不落盘到访问日志以外的地方
type LogMailer struct{ L *zap.Logger }

func (m *LogMailer) SendPasswordReset(_ context.Context, to, token string, expiresAt time.Time) error {
	m.L.Info("password reset mail (dev)",
		zap.String("to", to),
		zap.String("token", token),
		zap.Time("expiresAt", expiresAt),
	)
	return nil
}
