package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/brieflyai/brieflyai/internal/models"
)

// WebhookChannel posts a text envelope to a user-supplied webhook endpoint
// (the Feishu/Lark group-bot format). The response body is not validated.
type WebhookChannel struct {
	URL    string
	client *http.Client
}

type webhookEnvelope struct {
	MsgType string         `json:"msg_type"`
	Content webhookContent `json:"content"`
}

type webhookContent struct {
	Text string `json:"text"`
}

func (c *WebhookChannel) Name() string { return "webhook" }

func (c *WebhookChannel) Send(ctx context.Context, report *models.BriefingReport) error {
	payload, err := json.Marshal(webhookEnvelope{
		MsgType: "text",
		Content: webhookContent{Text: Digest(report)},
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return nil
}
