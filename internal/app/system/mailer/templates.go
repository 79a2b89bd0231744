package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// PasswordResetEmailData holds data for the password reset email.
type PasswordResetEmailData struct {
	SiteName  string
	Token     string
	ResetLink string
	ExpiresIn string // e.g., "1 hour"
}

// BuildPasswordResetEmail creates a reset email with both HTML and text bodies.
func BuildPasswordResetEmail(data PasswordResetEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Reset your %s password", data.SiteName),
		TextBody: buildPasswordResetText(data),
		HTMLBody: buildPasswordResetHTML(data),
	}
}

func buildPasswordResetText(data PasswordResetEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Someone asked to reset the password for your %s account.\n\n", data.SiteName)
	fmt.Fprintf(&buf, "Your reset token is: %s\n\n", data.Token)
	if data.ResetLink != "" {
		buf.WriteString("Or open this link:\n")
		buf.WriteString(data.ResetLink + "\n\n")
	}
	fmt.Fprintf(&buf, "The token expires in %s.\n\n", data.ExpiresIn)
	buf.WriteString("If you did not request a reset, you can safely ignore this email.\n")
	return buf.String()
}

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(passwordResetHTMLTemplate))

func buildPasswordResetHTML(data PasswordResetEmailData) string {
	var buf bytes.Buffer
	_ = passwordResetTmpl.Execute(&buf, data)
	return buf.String()
}

const passwordResetHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Password reset</title>
</head>
<body style="margin: 0; padding: 24px; font-family: Arial, sans-serif; background-color: #f3f4f6;">
  <div style="max-width: 480px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; padding: 32px;">
    <h1 style="margin: 0 0 16px; font-size: 22px; color: #15803d;">{{.SiteName}}</h1>
    <p style="color: #374151;">Someone asked to reset the password for your account.</p>
    <p style="color: #374151;">Your reset token:</p>
    <p style="font-family: monospace; font-size: 16px; background-color: #f9fafb; padding: 12px; border-radius: 4px;">{{.Token}}</p>
    {{if .ResetLink}}<p><a href="{{.ResetLink}}" style="color: #15803d;">Reset your password</a></p>{{end}}
    <p style="color: #6b7280; font-size: 13px;">The token expires in {{.ExpiresIn}}. If you did not request a reset, ignore this email.</p>
  </div>
</body>
</html>`
