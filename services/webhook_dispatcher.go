package services

import (
	"fmt"
	"time"

	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const WebhookTokenHeader = "x-webhook-token"

// WebhookPayload is the outbound wire format: the event type plus an
// event-specific data object.
type WebhookPayload struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// RetryPolicy drives the dispatch loop: one initial call plus
// MaxRetries retries, a fixed Delay apart. No backoff, no jitter.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
}

type WebhookDispatcher struct {
	client *resty.Client
	retry  RetryPolicy
}

func NewWebhookDispatcher(conf config.WebhookConfig) *WebhookDispatcher {
	client := resty.New().
		SetTimeout(conf.RequestTimeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(conf.MaxRedirects))

	return &WebhookDispatcher{
		client: client,
		retry: RetryPolicy{
			MaxRetries: conf.MaxRetries,
			Delay:      conf.RetryDelay,
		},
	}
}

// Dispatch posts the payload to a single webhook, retrying transport
// errors and 4xx/5xx answers. Exhaustion is logged and swallowed: a
// failed delivery never reaches the caller, the webhook token never
// reaches the logs.
func (d *WebhookDispatcher) Dispatch(webhook models.Webhook, eventType string, data interface{}) {
	payload := WebhookPayload{
		Event: eventType,
		Data:  data,
	}

	var lastErr string
	for attempt := 0; attempt <= d.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(d.retry.Delay)
		}

		req := d.client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(payload)
		if webhook.Token != nil {
			req.SetHeader(WebhookTokenHeader, *webhook.Token)
		}

		resp, err := req.Post(webhook.URL)
		if err != nil {
			lastErr = err.Error()
			continue
		}
		if resp.IsError() {
			lastErr = fmt.Sprintf("HTTP %d: %s", resp.StatusCode(), resp.String())
			continue
		}

		log.Info().
			Str("url", webhook.URL).
			Str("event", eventType).
			Int("status", resp.StatusCode()).
			Int("attempts", attempt+1).
			Msg("webhook delivered")
		return
	}

	log.Error().
		Str("url", webhook.URL).
		Str("event", eventType).
		Int("attempts", d.retry.MaxRetries+1).
		Str("error", lastErr).
		Msg("webhook delivery failed")
}
