package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

const defaultAPIURL = "https://api.postmarkapp.com/email"

type Client struct {
	serverToken string
	fromEmail   string
	apiURL      string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithAPIURL overrides the Postmark endpoint, for tests.
func WithAPIURL(url string) Option {
	return func(cl *Client) {
		cl.apiURL = url
	}
}

func NewClient(serverToken, fromEmail string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		apiURL:      defaultAPIURL,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token is set.
func (c *Client) Configured() bool {
	return c.serverToken != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendVerification mails the 6-digit code a new registrant must enter to
// prove email ownership.
func (c *Client) SendVerification(toEmail, code string) error {
	textBody := fmt.Sprintf("Your Platefront verification code is %s.\n\nEnter it to verify your email. The code expires in 24 hours.", code)
	htmlBody := fmt.Sprintf(
		`<p>Your Platefront verification code is:</p><p style="font-size:24px;letter-spacing:4px"><strong>%s</strong></p><p>Enter it to verify your email. The code expires in 24 hours.</p>`,
		code,
	)
	return c.send(toEmail, "Verify your email", htmlBody, textBody)
}

// SendWelcome greets a freshly verified account.
func (c *Client) SendWelcome(toEmail, name string) error {
	textBody := fmt.Sprintf("Hi %s,\n\nYour email is verified. Welcome to Platefront. Your next meal is a few taps away.", name)
	htmlBody := fmt.Sprintf(
		`<p>Hi %s,</p><p>Your email is verified. Welcome to Platefront. Your next meal is a few taps away.</p>`,
		name,
	)
	return c.send(toEmail, "Welcome to Platefront", htmlBody, textBody)
}

// SendPasswordReset mails the reset link. The token rides in the URL; it
// is never logged.
func (c *Client) SendPasswordReset(toEmail, resetURL string) error {
	textBody := fmt.Sprintf("Click the link below to reset your password:\n\n%s\n\nThis link expires in 1 hour. If you didn't request a reset, ignore this email.", resetURL)
	htmlBody := fmt.Sprintf(
		`<p>Click the link below to reset your password:</p><p><a href="%s">Reset password</a></p><p>This link expires in 1 hour. If you didn't request a reset, ignore this email.</p>`,
		resetURL,
	)
	return c.send(toEmail, "Reset your password", htmlBody, textBody)
}

// SendResetConfirmation confirms a completed password reset.
func (c *Client) SendResetConfirmation(toEmail string) error {
	textBody := "Your Platefront password was just changed. If this wasn't you, request a new reset immediately."
	htmlBody := `<p>Your Platefront password was just changed.</p><p>If this wasn't you, request a new reset immediately.</p>`
	return c.send(toEmail, "Your password was changed", htmlBody, textBody)
}

func (c *Client) send(toEmail, subject, htmlBody, textBody string) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing server token")
	}

	payload := postmarkEmail{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequest("POST", c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}

	return nil
}
