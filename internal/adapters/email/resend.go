package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/services"
)

var (
	_ services.EmailSender = (*ResendClient)(nil)
	_ services.EmailSender = (*LogSender)(nil)
)

type ResendClient struct {
	baseURL string
	apiKey  string
	from    string
	http    *http.Client
}

func NewResendClient(baseURL, apiKey, from string, timeout time.Duration) *ResendClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ResendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		http:    &http.Client{Timeout: timeout},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

func (c *ResendClient) Send(ctx context.Context, msg domain.EmailMessage) error {
	body, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("email: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("email: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("email: send to %s: %w", msg.To, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email: provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err == nil && out.ID != "" {
		log.Printf("[EMAIL] Sent %q to %s (id %s)", msg.Subject, msg.To, out.ID)
	}
	return nil
}

// LogSender prints messages instead of delivering them.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg domain.EmailMessage) error {
	log.Printf("[EMAIL] (not sent) to=%s subject=%q\n%s", msg.To, msg.Subject, msg.Text)
	return nil
}
