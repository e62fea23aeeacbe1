package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/brieflyai/brieflyai/internal/models"
	"github.com/brieflyai/brieflyai/internal/sanitize"
)

const emailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailChannel submits the styled HTML briefing through the EmailJS REST API.
// It is only assembled when all four provider fields are present.
type EmailChannel struct {
	Recipient  string
	ServiceID  string
	TemplateID string
	PublicKey  string
	endpoint   string
	client     *http.Client
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Send(ctx context.Context, report *models.BriefingReport) error {
	html, err := RenderEmailHTML(report)
	if err != nil {
		return fmt.Errorf("render email body: %w", err)
	}

	payload, err := json.Marshal(emailJSRequest{
		ServiceID:  c.ServiceID,
		TemplateID: c.TemplateID,
		UserID:     c.PublicKey,
		TemplateParams: map[string]string{
			"to_email":     c.Recipient,
			"subject":      Title(report),
			"date":         report.Date,
			"message_html": html,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("邮件发送失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("邮件发送失败: EmailJS API 错误 %d - %s", resp.StatusCode, string(body))
	}
	io.Copy(io.Discard, resp.Body)

	return nil
}

// Per-section item cap in the email digest.
const emailItemsPerSection = 3

var emailTmpl = template.Must(template.New("email").Parse(`
<div style="background-color: #f8fafc; border: 1px solid #e2e8f0; border-radius: 10px; padding: 18px; margin-bottom: 24px; border-left: 5px solid #2563eb;">
  <h3 style="margin: 0 0 10px; color: #1e3a8a; font-size: 16px; font-weight: 800;">🧭 宏观决策综述</h3>
  <p style="font-size: 15px; color: #334155; line-height: 1.6; margin: 0 0 14px;">{{.ExecutiveSummary}}</p>
  <div style="background-color: #ffffff; padding: 12px; border-radius: 8px; font-size: 13px; color: #475569; border: 1px solid #e2e8f0;">
    <strong style="color: #2563eb;">🎯 行动导向建议：</strong>{{.MobileSummary}}
  </div>
</div>
{{range .Sections}}
<div style="margin-bottom: 24px;">
  <div style="font-size: 11px; font-weight: 800; color: #2563eb; text-transform: uppercase; letter-spacing: 1px; border-bottom: 1px solid #f1f5f9; padding-bottom: 5px; margin-bottom: 12px;">【 {{.Label}} 】</div>
  {{range .Items}}
  <div style="margin-bottom: 15px; padding-left: 8px;">
    <a href="{{.URL}}" style="text-decoration: none; color: #0f172a; font-weight: 700; font-size: 14px; display: block; margin-bottom: 4px;">{{.Title}}</a>
    <p style="margin: 0; font-size: 13px; color: #64748b; line-height: 1.5;">{{.Summary}}</p>
  </div>
  {{end}}
</div>
{{end}}
`))

type emailItem struct {
	URL     string
	Title   string
	Summary template.HTML
}

type emailSection struct {
	Label string
	Items []emailItem
}

type emailData struct {
	ExecutiveSummary template.HTML
	MobileSummary    template.HTML
	Sections         []emailSection
}

// RenderEmailHTML builds the email body: sanitized summaries up top, then up
// to three items per non-empty section.
func RenderEmailHTML(report *models.BriefingReport) (string, error) {
	data := emailData{
		ExecutiveSummary: template.HTML(sanitize.HTML(report.ExecutiveSummary)),
		MobileSummary:    template.HTML(sanitize.HTML(report.MobileSummary)),
	}

	for _, section := range report.Sections {
		if len(section.Items) == 0 {
			continue
		}
		items := section.Items
		if len(items) > emailItemsPerSection {
			items = items[:emailItemsPerSection]
		}

		out := emailSection{Label: section.CategoryLabel}
		for _, item := range items {
			out.Items = append(out.Items, emailItem{
				URL:     item.URL,
				Title:   sanitize.Clean(item.Title),
				Summary: template.HTML(sanitize.HTML(item.Summary)),
			})
		}
		data.Sections = append(data.Sections, out)
	}

	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
