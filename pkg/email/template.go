package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

// Branding fills the static parts of the notification layout.
type Branding struct {
	Name     string
	Tagline  string
	Location string
	SiteURL  string
}

// ContactContent holds the data for contact form emails
type ContactContent struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Message     string
}

const contactTextTemplate = `Name: {{.SenderName}}
Email: {{.SenderEmail}}
Subject: {{.Subject}}

Message:
{{.Message}}`

// contactEmailTemplate is the HTML template for contact form emails.
// html/template escapes every interpolated value; the message is passed as
// lines so newlines become <br> without trusting user markup.
const contactEmailTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Contact Inquiry</title>
    <style>
        body { margin: 0; padding: 0; background-color: #f7f9f7; font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; }
        table { border-spacing: 0; width: 100%; }
        td { padding: 0; }
        .wrapper { width: 100%; table-layout: fixed; background-color: #f7f9f7; padding-bottom: 60px; }
        .main { background-color: #ffffff; margin: 0 auto; width: 100%; max-width: 600px; color: #333333; border-radius: 12px; overflow: hidden; }
        .header { background: linear-gradient(135deg, #1d3a24 0%, #2e5a39 100%); padding: 45px 30px; text-align: center; }
        .header h1 { color: #ffffff; margin: 0; font-size: 28px; font-weight: 300; letter-spacing: 4px; text-transform: uppercase; }
        .header p { color: #d1ddd4; margin: 10px 0 0; font-size: 13px; letter-spacing: 1px; }
        .content { padding: 40px 50px; }
        .content h2 { color: #1d3a24; font-size: 22px; font-weight: 600; margin: 0 0 25px; text-align: center; }
        .data-section { background-color: #fcfdfc; border-radius: 8px; padding: 25px; margin-bottom: 30px; border: 1px solid #edf2ee; }
        .data-row { margin-bottom: 15px; border-bottom: 1px solid #f0f4f1; padding-bottom: 10px; }
        .label { font-size: 11px; font-weight: 700; color: #889c8e; text-transform: uppercase; letter-spacing: 1.2px; display: block; margin-bottom: 4px; }
        .value { font-size: 16px; color: #1d3a24; font-weight: 500; display: block; }
        .message-title { font-size: 14px; font-weight: 600; color: #1d3a24; margin-bottom: 12px; display: block; }
        .message-content { background-color: #f0f4f1; border-radius: 8px; padding: 25px; font-size: 15px; color: #444444; line-height: 1.8; border-left: 5px solid #2e5a39; }
        .footer { text-align: center; padding: 30px; font-size: 12px; color: #999999; line-height: 1.8; }
        .footer a { color: #1d3a24; text-decoration: none; font-weight: 600; }
    </style>
</head>
<body>
    <center class="wrapper">
        <table class="main">
            <tr>
                <td class="header">
                    <h1>{{.Brand.Name}}</h1>
                    <p>{{.Brand.Tagline}}</p>
                </td>
            </tr>
            <tr>
                <td class="content">
                    <h2>Inquiry Details</h2>
                    <div class="data-section">
                        <div class="data-row">
                            <span class="label">From Full Name</span>
                            <span class="value">{{.SenderName}}</span>
                        </div>
                        <div class="data-row">
                            <span class="label">Email Address</span>
                            <span class="value">{{.SenderEmail}}</span>
                        </div>
                        <div class="data-row">
                            <span class="label">Inquiry Subject</span>
                            <span class="value">{{.Subject}}</span>
                        </div>
                    </div>
                    <span class="message-title">Correspondence Content</span>
                    <div class="message-content">{{range $i, $line := .MessageLines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</div>
                </td>
            </tr>
            <tr>
                <td class="footer">
                    <p>
                        This is an automated notification from your website's contact system.<br>
                        {{.Brand.Location}}<br>
                        {{if .Brand.SiteURL}}<a href="{{.Brand.SiteURL}}">{{.SiteHost}}</a>{{end}}
                    </p>
                </td>
            </tr>
        </table>
    </center>
</body>
</html>`

var (
	textTmpl = texttemplate.Must(texttemplate.New("contact_text").Parse(contactTextTemplate))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("contact_html").Parse(contactEmailTemplate))
)

type htmlData struct {
	ContactContent
	Brand        Branding
	SiteHost     string
	MessageLines []string
}

// RenderText builds the plain-text part. The message is kept verbatim.
func RenderText(c ContactContent) (string, error) {
	var body bytes.Buffer
	if err := textTmpl.Execute(&body, c); err != nil {
		return "", fmt.Errorf("failed to execute text template: %w", err)
	}
	return body.String(), nil
}

// RenderHTML builds the HTML part with every field escaped.
func RenderHTML(b Branding, c ContactContent) (string, error) {
	data := htmlData{
		ContactContent: c,
		Brand:          b,
		SiteHost:       siteHost(b.SiteURL),
		MessageLines:   splitLines(c.Message),
	}

	var body bytes.Buffer
	if err := htmlTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

// splitLines treats CRLF, CR and LF alike.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

func siteHost(siteURL string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(siteURL, "https://"), "http://")
	return strings.TrimRight(host, "/")
}
