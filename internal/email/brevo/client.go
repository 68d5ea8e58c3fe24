package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"resumabuilder/internal/email"
)

// Client sends transactional mail through Brevo's HTTP API.
type Client struct {
	http       *http.Client
	endpoint   string
	apiKey     string
	senderName string
}

func NewClient(endpoint, apiKey, senderName string) *Client {
	return &Client{
		http:       &http.Client{Timeout: 15 * time.Second},
		endpoint:   endpoint,
		apiKey:     apiKey,
		senderName: senderName,
	}
}

type party struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type sendRequest struct {
	Sender      party   `json:"sender"`
	To          []party `json:"to"`
	Subject     string  `json:"subject"`
	HTMLContent string  `json:"htmlContent"`
}

func (c *Client) SendMail(ctx context.Context, mail email.Mail) error {
	body, err := json.Marshal(sendRequest{
		Sender:      party{Name: c.senderName, Email: mail.From},
		To:          []party{{Email: mail.To}},
		Subject:     mail.Subject,
		HTMLContent: string(mail.Body),
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail provider returned status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
