// Package mail sends notification email over SMTP.
package mail

import (
	"crypto/tls"
	"fmt"
	"net/mail"
	"net/url"

	"github.com/dajohi/goemail"
	"github.com/taskforge/taskforge/internal/logger"
)

// Client sends email from a preset address. When SMTP credentials are not
// configured the client is disabled and every send fails, which surfaces
// to callers as an internal error.
type Client struct {
	smtp        *goemail.SMTP
	mailName    string
	mailAddress string
	frontendURL string
	disabled    bool
}

// NewClient returns a mail client. Email is disabled if any of the
// required SMTP credentials are missing.
func NewClient(host, user, password, sender, frontendURL string, skipVerify bool) (*Client, error) {
	if host == "" || user == "" || password == "" {
		logger.Info("mail: disabled")
		return &Client{disabled: true, frontendURL: frontendURL}, nil
	}

	u, err := url.Parse(fmt.Sprintf("smtps://%v:%v@%v", user, password, host))
	if err != nil {
		return nil, err
	}

	a, err := mail.ParseAddress(sender)
	if err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}

	smtp, err := goemail.NewSMTP(u.String(), &tls.Config{
		InsecureSkipVerify: skipVerify,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("mail: enabled", logger.F("host", host), logger.F("sender", a.Address))

	return &Client{
		smtp:        smtp,
		mailName:    a.Name,
		mailAddress: a.Address,
		frontendURL: frontendURL,
	}, nil
}

// IsEnabled returns whether outbound email is configured
func (c *Client) IsEnabled() bool {
	return !c.disabled
}

// SendPasswordReset emails a password-reset link containing token to
// recipient. The token only exists in this email; losing the send loses
// the token.
func (c *Client) SendPasswordReset(recipient, token, username string) error {
	if c.disabled {
		return fmt.Errorf("mail is disabled")
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", c.frontendURL, token)
	body := fmt.Sprintf(resetBody, username, resetURL, resetURL)

	msg := goemail.NewHTMLMessage(c.mailAddress, "Reset your password", body)
	msg.SetName(c.mailName)
	msg.AddTo(recipient)

	return c.smtp.Send(msg)
}

const resetBody = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Reset your password</h2>
    <p>Hi <strong>%s</strong>,</p>
    <p>We received a request to reset the password for your account.
       Click the button below to choose a new one:</p>
    <p style="text-align: center;">
      <a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #4ECDC4; color: white; text-decoration: none; border-radius: 5px;">Reset password</a>
    </p>
    <p>Or copy this link into your browser:</p>
    <p style="word-break: break-all;">%s</p>
    <p><strong>This link is only valid for 15 minutes.</strong></p>
    <p>If you did not request a password reset, you can safely ignore this
       email.</p>
  </div>
</body>
</html>`
