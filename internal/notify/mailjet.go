// Package notify delivers contact form submissions by email through the Mailjet send API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"net/http"
	"strings"
	texttemplate "text/template"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
)

const (
	DefaultMailjetURL = "https://api.mailjet.com/v3.1/send"
	DefaultFromEmail  = "shoabdulazeez@gmail.com"
	DefaultToEmail    = "shoabdulazeez@gmail.com"

	fromName = "Portfolio Contact Form"
	toName   = "Shoile Abdulazeez"

	noSubject = "No subject provided"
)

var ErrNotConfigured = errors.New("mailjet api credentials not configured")

// ContactMessage is a stored contact form submission.
type ContactMessage struct {
	ID        int
	Name      string
	Email     string
	Subject   string
	Message   string
	CreatedAt time.Time
}

type MailjetParams struct {
	APIKey    string
	SecretKey string
	FromEmail string
	ToEmail   string
	// Endpoint overrides DefaultMailjetURL.
	Endpoint   string
	HTTPClient *http.Client
}

type Mailjet struct {
	apiKey     string
	secretKey  string
	fromEmail  string
	toEmail    string
	endpoint   string
	httpClient *http.Client
}

func NewMailjet(params MailjetParams) *Mailjet {
	m := &Mailjet{
		apiKey:     params.APIKey,
		secretKey:  params.SecretKey,
		fromEmail:  params.FromEmail,
		toEmail:    params.ToEmail,
		endpoint:   params.Endpoint,
		httpClient: params.HTTPClient,
	}
	if m.fromEmail == "" {
		m.fromEmail = DefaultFromEmail
	}
	if m.toEmail == "" {
		m.toEmail = DefaultToEmail
	}
	if m.endpoint == "" {
		m.endpoint = DefaultMailjetURL
	}
	if m.httpClient == nil {
		m.httpClient = &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return m
}

func (m *Mailjet) Configured() bool {
	return m.apiKey != "" && m.secretKey != ""
}

type mailjetAddress struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type mailjetMessage struct {
	From     mailjetAddress   `json:"From"`
	To       []mailjetAddress `json:"To"`
	Subject  string           `json:"Subject"`
	TextPart string           `json:"TextPart"`
	HTMLPart string           `json:"HTMLPart"`
}

type mailjetRequest struct {
	Messages []mailjetMessage `json:"Messages"`
}

type mailjetResponse struct {
	Messages []struct {
		Status string `json:"Status"`
	} `json:"Messages"`
}

// NotifyContact emails the site owner about a new contact submission.
func (m *Mailjet) NotifyContact(ctx context.Context, contact ContactMessage) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "mailjet.notifyContact")
	span.SetAttributes(attribute.Int("contact.id", contact.ID))
	defer span.End()

	if !m.Configured() {
		return ErrNotConfigured
	}

	msg, err := buildMessage(contact)
	if err != nil {
		return err
	}
	msg.From = mailjetAddress{Email: m.fromEmail, Name: fromName}
	msg.To = []mailjetAddress{{Email: m.toEmail, Name: toName}}

	body, err := json.Marshal(mailjetRequest{Messages: []mailjetMessage{msg}})
	if err != nil {
		return fmt.Errorf("marshal mailjet request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create mailjet request: %w", err)
	}
	req.SetBasicAuth(m.apiKey, m.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("send mailjet request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("read mailjet response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, resp.Status)
		return fmt.Errorf("mailjet send failed: %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var mjResp mailjetResponse
	if err := json.Unmarshal(respBody, &mjResp); err != nil {
		return fmt.Errorf("unmarshal mailjet response: %w", err)
	}
	for _, sent := range mjResp.Messages {
		if sent.Status != "success" {
			return fmt.Errorf("mailjet message status: %s", sent.Status)
		}
	}

	log.Debugf("contact %d notification sent via mailjet", contact.ID)
	span.SetStatus(codes.Ok, "sent")
	return nil
}

var htmlTemplate = htmltemplate.Must(htmltemplate.New("contact-html").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333; border-bottom: 2px solid #007bff; padding-bottom: 10px;">New Contact Form Submission</h2>
  <div style="margin: 20px 0;">
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Subject:</strong> {{.Subject}}</p>
  </div>
  <div style="background: #f8f9fa; padding: 20px; border-left: 4px solid #007bff; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #333;">Message:</h3>
    <p style="white-space: pre-wrap; line-height: 1.6;">{{.Message}}</p>
  </div>
  <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; font-size: 12px; color: #666;">
    <p>This email was sent from your portfolio contact form.</p>
    <p>Contact ID: {{.ID}}</p>
    <p>Timestamp: {{.Timestamp}}</p>
  </div>
</div>
`))

var textTemplate = texttemplate.Must(texttemplate.New("contact-text").Parse(`New Contact Form Submission

Name: {{.Name}}
Email: {{.Email}}
Subject: {{.Subject}}

Message:
{{.Message}}

---
Contact ID: {{.ID}}
Timestamp: {{.Timestamp}}
`))

type templateData struct {
	ContactMessage
	Timestamp string
}

func buildMessage(contact ContactMessage) (mailjetMessage, error) {
	data := templateData{
		ContactMessage: contact,
		Timestamp:      contact.CreatedAt.Format(time.RFC1123),
	}

	subject := "New Message"
	if contact.Subject != "" {
		subject = contact.Subject
	} else {
		data.Subject = noSubject
	}

	var htmlPart, textPart bytes.Buffer
	if err := htmlTemplate.Execute(&htmlPart, data); err != nil {
		return mailjetMessage{}, fmt.Errorf("render html part: %w", err)
	}
	if err := textTemplate.Execute(&textPart, data); err != nil {
		return mailjetMessage{}, fmt.Errorf("render text part: %w", err)
	}

	return mailjetMessage{
		Subject:  "Portfolio Contact: " + subject,
		HTMLPart: htmlPart.String(),
		TextPart: textPart.String(),
	}, nil
}
