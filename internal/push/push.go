// Package push fans a completed briefing report out to the configured
// delivery channels. Every channel is best-effort: failures are logged and
// reported in the result summary, never propagated, and never block another
// channel.
package push

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/brieflyai/brieflyai/internal/models"
)

// Channel delivers one report to one destination.
type Channel interface {
	Name() string
	Send(ctx context.Context, report *models.BriefingReport) error
}

// Result records one channel's delivery outcome.
type Result struct {
	Channel string `json:"channel"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

type Distributor struct {
	log      *zap.Logger
	client   *http.Client
	telegram *TelegramChannel
	barkBase string
	emailURL string
}

func NewDistributor(log *zap.Logger, telegram *TelegramChannel) *Distributor {
	return &Distributor{
		log:      log,
		client:   &http.Client{Timeout: 30 * time.Second},
		telegram: telegram,
		barkBase: barkBaseURL,
		emailURL: emailJSEndpoint,
	}
}

// channelsFor assembles the channels enabled by the preference record.
func (d *Distributor) channelsFor(prefs models.UserPreferences) []Channel {
	var channels []Channel
	if prefs.WebhookURL != "" {
		channels = append(channels, &WebhookChannel{URL: prefs.WebhookURL, client: d.client})
	}
	if prefs.BarkKey != "" {
		channels = append(channels, &BarkChannel{Key: prefs.BarkKey, base: d.barkBase, client: d.client})
	}
	if prefs.EmailConfigured() {
		channels = append(channels, &EmailChannel{
			Recipient:  prefs.EmailRecipient,
			ServiceID:  prefs.EmailJSServiceID,
			TemplateID: prefs.EmailJSTemplateID,
			PublicKey:  prefs.EmailJSPublicKey,
			endpoint:   d.emailURL,
			client:     d.client,
		})
	}
	if d.telegram != nil && d.telegram.Configured() {
		channels = append(channels, d.telegram)
	}
	return channels
}

// Distribute pushes the report through every enabled channel. Channels run
// independently; a failing channel never prevents the others from being
// attempted. Delivery outcome has no effect on the report or local state.
func (d *Distributor) Distribute(ctx context.Context, report *models.BriefingReport, prefs models.UserPreferences) []Result {
	channels := d.channelsFor(prefs)
	results := make([]Result, len(channels))

	var wg sync.WaitGroup
	for i, ch := range channels {
		wg.Add(1)
		go func(i int, ch Channel) {
			defer wg.Done()

			err := ch.Send(ctx, report)
			if err != nil {
				d.log.Warn("channel delivery failed",
					zap.String("channel", ch.Name()),
					zap.Error(err),
				)
				results[i] = Result{Channel: ch.Name(), Error: err.Error()}
				return
			}
			d.log.Info("channel delivery succeeded", zap.String("channel", ch.Name()))
			results[i] = Result{Channel: ch.Name(), OK: true}
		}(i, ch)
	}
	wg.Wait()

	return results
}
