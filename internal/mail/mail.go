package mail

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

// Queues understood by the mail service.
const (
	QueueRegister       = "register"
	QueueLogin          = "login"
	QueueForgotPassword = "forgot_password"
	QueueRecovery       = "recovery"
	QueueTicketAssigned = "ticket_assigned"
)

var (
	ErrNotConfigured = errors.New("mail service url not set")
	ErrRejected      = errors.New("mail service rejected message")
)

// Message is the per-recipient part of a mail request. Branding fields are
// added by the dispatcher.
type Message struct {
	Email    string
	Name     string
	LastName string
	URL      string
	Subject  string
	Extra    map[string]string
}

// Sender delivers a message through a named queue.
type Sender interface {
	Send(ctx context.Context, queue string, msg Message) error
}

type dispatchResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Dispatcher posts messages to `{service}/email/{exchange}/{queue}`.
type Dispatcher struct {
	client *resty.Client
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewRestyClient returns a resty client with retries and the given timeout.
func NewRestyClient(cfg config.MailConfig) *resty.Client {
	client := resty.New().
		SetRetryCount(3).
		SetHeader("Content-Type", "application/json")
	if timeout := cfg.Timeout(); timeout > 0 {
		client.SetTimeout(timeout)
	}
	return client
}

// NewDispatcher constructs a dispatcher.
func NewDispatcher(client *resty.Client, cfg config.MailConfig, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{client: client, cfg: cfg, logger: logger}
}

// Send returns an error when the service is not configured, unreachable,
// answers with a non-2xx status or replies ok=false.
func (d *Dispatcher) Send(ctx context.Context, queue string, msg Message) error {
	if strings.TrimSpace(d.cfg.ServiceURL) == "" {
		d.logger.Error("mail service url not set")
		return ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/email/%s/%s",
		strings.TrimRight(d.cfg.ServiceURL, "/"),
		url.PathEscape(d.cfg.Exchange),
		url.PathEscape(queue),
	)

	var out dispatchResponse
	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(d.body(msg)).
		SetResult(&out).
		Post(endpoint)
	if err != nil {
		d.logger.Warn("mail dispatch failed", zap.String("queue", queue), zap.Error(err))
		return fmt.Errorf("dispatch mail: %w", err)
	}
	if resp.IsError() {
		d.logger.Warn("non-2xx response from mail service",
			zap.String("queue", queue),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("response", string(resp.Body())),
		)
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode())
	}
	if !out.OK {
		d.logger.Warn("mail service rejected message", zap.String("queue", queue), zap.String("message", out.Message))
		return fmt.Errorf("%w: %s", ErrRejected, out.Message)
	}
	return nil
}

func (d *Dispatcher) body(msg Message) map[string]string {
	body := make(map[string]string, len(msg.Extra)+10)
	for k, v := range msg.Extra {
		body[k] = v
	}
	body["email"] = msg.Email
	body["nombre"] = msg.Name
	body["lastname"] = msg.LastName
	body["url"] = msg.URL
	body["subject"] = msg.Subject
	body["color"] = d.cfg.AppColor
	body["emailFrom"] = d.cfg.EmailFrom
	body["urlApp"] = d.cfg.FrontHost
	body["mailApp"] = d.cfg.AppMail
	body["imgApp"] = d.cfg.AppImg
	return body
}
