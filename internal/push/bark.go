package push

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/brieflyai/brieflyai/internal/models"
)

const barkBaseURL = "https://api.day.app"

// BarkChannel pushes a notification to an iOS device through the Bark relay.
type BarkChannel struct {
	Key    string
	base   string
	client *http.Client
}

func (c *BarkChannel) Name() string { return "bark" }

func (c *BarkChannel) Send(ctx context.Context, report *models.BriefingReport) error {
	endpoint := fmt.Sprintf("%s/%s/%s/%s?group=BrieflyAI",
		c.base,
		c.Key,
		url.PathEscape(Title(report)),
		url.PathEscape(Digest(report)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create bark request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("bark request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return nil
}
