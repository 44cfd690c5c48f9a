package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"greenbasket/internal/config"
)

type Service interface {
	SendMilestoneEmail(ctx context.Context, toEmail, fullName, title, message string) error
	SendWeeklySummaryEmail(ctx context.Context, toEmail, fullName string, summary WeeklySummary) error
}

// WeeklySummary is the per-user digest the sweep sends out.
type WeeklySummary struct {
	ActiveGoals   int
	AchievedGoals int
	BestGoalName  string
	BestGoalPct   float64
}

type service struct {
	client *resend.Client
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
	}
}

var milestoneTmpl = template.Must(template.New("milestone").Parse(`
<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto;">
	<h2 style="color: #10b981;">{{.Title}}</h2>
	<p>Hi {{.Name}},</p>
	<p>{{.Message}}</p>
	<p><a href="https://{{.Domain}}/goals" style="color: #10b981;">View your goals</a></p>
</div>`))

var weeklyTmpl = template.Must(template.New("weekly").Parse(`
<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto;">
	<h2 style="color: #10b981;">Your weekly sustainability summary</h2>
	<p>Hi {{.Name}},</p>
	<p>You have {{.ActiveGoals}} active goal(s), {{.AchievedGoals}} of them achieved.</p>
	{{if .BestGoalName}}<p>Best progress: <strong>{{.BestGoalName}}</strong> at {{printf "%.0f" .BestGoalPct}}%.</p>{{end}}
	<p><a href="https://{{.Domain}}/goals" style="color: #10b981;">View your goals</a></p>
</div>`))

func (s *service) send(toEmail, subject string, tmpl *template.Template, data any) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("GreenBasket <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}

func (s *service) SendMilestoneEmail(ctx context.Context, toEmail, fullName, title, message string) error {
	data := struct {
		Title   string
		Name    string
		Message string
		Domain  string
	}{
		Title:   title,
		Name:    fullName,
		Message: message,
		Domain:  s.config.Domain,
	}
	return s.send(toEmail, title+" - GreenBasket", milestoneTmpl, data)
}

func (s *service) SendWeeklySummaryEmail(ctx context.Context, toEmail, fullName string, summary WeeklySummary) error {
	data := struct {
		Name   string
		Domain string
		WeeklySummary
	}{
		Name:          fullName,
		Domain:        s.config.Domain,
		WeeklySummary: summary,
	}
	return s.send(toEmail, "Your weekly sustainability summary - GreenBasket", weeklyTmpl, data)
}
