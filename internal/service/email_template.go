package service

import (
	"bytes"
	"html"
	"html/template"
	"strings"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

type statusEmailCopy struct {
	Subject string
	Heading string
	Body    string
	Accent  string
}

var statusEmailCopies = map[string]statusEmailCopy{
	models.ApplicationStatusApproved: {
		Subject: "Scholarship Application Approved",
		Heading: "Congratulations! Your application has been approved",
		Body:    "We are pleased to inform you that your application has been approved. Please log in to the portal for the next steps and any requirements for releasing your grant.",
		Accent:  "#16a34a",
	},
	models.ApplicationStatusRejected: {
		Subject: "Scholarship Application Update",
		Heading: "Your application was not approved",
		Body:    "Thank you for your interest. After careful review, your application was not approved this time. You can see the evaluation details in the portal.",
		Accent:  "#dc2626",
	},
	models.ApplicationStatusPending: {
		Subject: "Scholarship Application Received",
		Heading: "Your application is under review",
		Body:    "We have received your application and it is now waiting for review. We will notify you as soon as a decision is made.",
		Accent:  "#f59e0b",
	},
}

type statusEmailData struct {
	statusEmailCopy
	SiteName         string
	PortalURL        string
	StudentName      string
	ScholarshipTitle string
	ApplicationID    uint
	Reason           string
	Notes            string
}

var statusEmailTemplate = template.Must(template.New("status_email").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="margin:0;padding:0;background:#f3f4f6;font-family:Arial,Helvetica,sans-serif;color:#111827;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
    <tr><td align="center" style="padding:24px;">
      <table role="presentation" width="600" cellspacing="0" cellpadding="0" style="background:#ffffff;border-radius:8px;overflow:hidden;">
        <tr><td style="background:{{.Accent}};color:#ffffff;padding:20px 24px;font-size:20px;font-weight:bold;">{{.SiteName}}</td></tr>
        <tr><td style="padding:24px;">
          <h2 style="margin-top:0;color:{{.Accent}};">{{.Heading}}</h2>
          {{if .StudentName}}<p>Dear {{.StudentName}},</p>{{end}}
          <p>Scholarship: <strong>{{.ScholarshipTitle}}</strong></p>
          <p>{{.Body}}</p>
          {{if .Reason}}<div style="border-left:4px solid {{.Accent}};padding:8px 12px;background:#fef2f2;">
            <p style="margin:0 0 4px 0;"><strong>Reason:</strong> {{.Reason}}</p>
            {{if .Notes}}<p style="margin:0;"><strong>Additional Notes:</strong> {{.Notes}}</p>{{end}}
          </div>{{end}}
          {{if .PortalURL}}<p style="margin-top:24px;"><a href="{{.PortalURL}}/student/applications/{{.ApplicationID}}" style="background:{{.Accent}};color:#ffffff;padding:10px 18px;border-radius:4px;text-decoration:none;">View application</a></p>{{end}}
        </td></tr>
        <tr><td style="padding:16px 24px;font-size:12px;color:#6b7280;">This is an automated message from {{.SiteName}}. Please do not reply.</td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

// renderStatusEmail builds subject and HTML body for a status change.
// Unknown statuses use the pending copy.
func renderStatusEmail(data statusEmailData, status string) (string, string, error) {
	content, ok := statusEmailCopies[status]
	if !ok {
		content = statusEmailCopies[models.ApplicationStatusPending]
	}
	data.statusEmailCopy = content
	data.PortalURL = strings.TrimRight(data.PortalURL, "/")
	// Reviewer text is stored entity-escaped; the template escapes it again on output.
	data.Reason = html.UnescapeString(data.Reason)
	data.Notes = html.UnescapeString(data.Notes)

	var buf bytes.Buffer
	if err := statusEmailTemplate.Execute(&buf, data); err != nil {
		return "", "", err
	}

	subject := content.Subject
	if data.SiteName != "" {
		subject = "[" + data.SiteName + "] " + subject
	}
	return subject, buf.String(), nil
}
