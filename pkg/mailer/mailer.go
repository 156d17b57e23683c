package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pharmstack/pharmacy-backend/pkg/config"
	pkgerrors "github.com/pharmstack/pharmacy-backend/pkg/errors"
)

const (
	sendgridEndpoint = "https://api.sendgrid.com/v3/mail/send"
	requestTimeout   = 15 * time.Second
)

// Notifier dispatches a single message to a recipient. Implementations either
// deliver or return an error; the caller decides what a failure means.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SendgridMailer is the production Notifier backed by the SendGrid v3 API.
type SendgridMailer struct {
	apiKey string
	from   string
	client httpDoer
}

// NewSendgridMailer builds a mailer from the sendgrid configuration.
func NewSendgridMailer(cfg config.SendgridConfig) (*SendgridMailer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	if cfg.DefaultFrom == "" {
		return nil, fmt.Errorf("sendgrid from address is required")
	}
	return &SendgridMailer{
		apiKey: cfg.APIKey,
		from:   cfg.DefaultFrom,
		client: &http.Client{Timeout: requestTimeout},
	}, nil
}

type sendgridAddress struct {
	Email string `json:"email"`
}

type sendgridPersonalization struct {
	To []sendgridAddress `json:"to"`
}

type sendgridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendgridPayload struct {
	Personalizations []sendgridPersonalization `json:"personalizations"`
	From             sendgridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendgridContent         `json:"content"`
}

// Send delivers one plain-text message, reporting any non-2xx response as a
// dependency error carrying the status and response body.
func (m *SendgridMailer) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient address required")
	}

	payload := sendgridPayload{
		Personalizations: []sendgridPersonalization{{To: []sendgridAddress{{Email: to}}}},
		From:             sendgridAddress{Email: m.from},
		Subject:          subject,
		Content:          []sendgridContent{{Type: "text/plain", Value: body}},
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode mail payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendgridEndpoint, bytes.NewReader(encoded))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build mail request")
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send mail")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return pkgerrors.New(pkgerrors.CodeDependency, "mail provider rejected message").
			WithDetails(map[string]any{"status": resp.StatusCode, "body": string(detail)})
	}
	return nil
}
