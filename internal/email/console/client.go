package console

import (
	"context"
	"log/slog"

	"resumabuilder/internal/email"
)

// Client logs mail instead of sending it, for local development.
type Client struct{}

func NewClient() *Client { return &Client{} }

func (c *Client) SendMail(_ context.Context, mail email.Mail) error {
	slog.Info("console mail", "to", mail.To, "subject", mail.Subject, "body", string(mail.Body))
	return nil
}
