package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Delivery is the payload handed to the external email service. It carries
// the event identifiers a recipient needs to trace the notification back to
// its source record.
type Delivery struct {
	To                string     `json:"to"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Type              string     `json:"type"`
	Priority          string     `json:"priority"`
	Trial             string     `json:"trial,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	Source            string     `json:"source,omitempty"`
	RelatedEntityType string     `json:"related_entity_type,omitempty"`
	RelatedEntityID   *uint      `json:"related_entity_id,omitempty"`
	ActionURL         string     `json:"action_url,omitempty"`
}

// Sender is the email channel boundary. Implementations are best-effort:
// Send reports whether the mail was accepted, never blocks notification state.
type Sender interface {
	Send(ctx context.Context, d Delivery) bool
}

// Client POSTs deliveries to an external mailer endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a mailer client. Returns nil if no endpoint is
// configured; a nil client safely drops every delivery.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{endpoint: endpoint, http: &http.Client{Timeout: timeout}}
}

func (c *Client) Send(ctx context.Context, d Delivery) bool {
	if c == nil {
		return false
	}
	body, err := json.Marshal(d)
	if err != nil {
		log.Printf("[mailer] marshal: %v", err)
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Printf("[mailer] request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[mailer] send to %s: %v", d.To, err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[mailer] send to %s: status %d", d.To, resp.StatusCode)
		return false
	}
	return true
}
