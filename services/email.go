package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sanz-the-nanny/backend-booking/config"
)

// EmailSender is the transactional-email collaborator. Send failures on
// booking transitions are caught and logged by callers, never propagated to
// fail the state change.
type EmailSender interface {
	Send(to, subject, title, bodyHTML, footerNote, replyTo string) error
}

// EmailJSClient speaks the EmailJS REST API. One universal template renders
// the full branded HTML built here, so the account only needs a single
// template.
type EmailJSClient struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
	URL        string
	ReplyTo    string
}

func NewEmailJSClient(cfg *config.Config) *EmailJSClient {
	return &EmailJSClient{
		ServiceID:  cfg.EmailJSServiceID,
		TemplateID: cfg.EmailJSTemplateID,
		PublicKey:  cfg.EmailJSPublicKey,
		PrivateKey: cfg.EmailJSPrivateKey,
		URL:        cfg.EmailJSURL,
		ReplyTo:    cfg.NotifyEmail,
	}
}

func (e *EmailJSClient) Send(to, subject, title, bodyHTML, footerNote, replyTo string) error {
	if replyTo == "" {
		replyTo = e.ReplyTo
	}
	payload := map[string]interface{}{
		"service_id":  e.ServiceID,
		"template_id": e.TemplateID,
		"user_id":     e.PublicKey,
		"accessToken": e.PrivateKey,
		"template_params": map[string]string{
			"to_email":  to,
			"subject":   subject,
			"reply_to":  replyTo,
			"html_body": BuildBrandedEmail(title, bodyHTML, footerNote),
		},
	}

	body, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", e.URL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("EmailJS failed with status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// BuildBrandedEmail wraps body HTML in the site's header/footer chrome.
func BuildBrandedEmail(title, bodyHTML, footerNote string) string {
	footer := ""
	if footerNote != "" {
		footer = `<p style="color:#999;font-size:12px;margin:0 0 6px;">` + footerNote + `</p>`
	}
	return `<div style="max-width:600px;margin:0 auto;font-family:Segoe UI,Arial,sans-serif;">` +
		`<div style="background:linear-gradient(135deg,#ff6b9d,#c44569);padding:30px 20px;text-align:center;border-radius:12px 12px 0 0;">` +
		`<h1 style="color:#fff;margin:0;font-size:22px;">` + title + `</h1>` +
		`<p style="color:#ffe0ec;margin:5px 0 0;font-size:13px;">Sanz the Nanny</p>` +
		`</div>` +
		`<div style="background:#ffffff;padding:28px 24px;border-left:1px solid #f0e6ef;border-right:1px solid #f0e6ef;">` +
		bodyHTML +
		`</div>` +
		`<div style="background:#fff5f7;padding:18px;text-align:center;border-radius:0 0 12px 12px;border:1px solid #f0e6ef;border-top:none;">` +
		footer +
		`<p style="color:#c44569;font-size:13px;margin:0;">&hearts; Sanz the Nanny &middot; Austin, TX</p>` +
		`<p style="color:#999;font-size:11px;margin:4px 0 0;">sanz.the.nanny@gmail.com</p>` +
		`</div>` +
		`</div>`
}

// FormatDateNice renders a YYYY-MM-DD key the way emails show dates.
func FormatDateNice(key string) string {
	d, err := ParseDateKey(key)
	if err != nil {
		return key
	}
	return d.Format("Monday, January 2, 2006")
}
