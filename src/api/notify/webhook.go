package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"
)

type attemptFunc func() (status int, err error)

// doWithRetry retries the attempt on transport errors, 429 and 5xx with
// exponential backoff.
func doWithRetry(ctx context.Context, attempts int, initialDelay time.Duration, fn attemptFunc) (int, error) {
	if attempts <= 0 {
		attempts = 1
	}
	delay := initialDelay
	var (
		status int
		err    error
	)
	for i := 0; i < attempts; i++ {
		status, err = fn()
		if err == nil && status != http.StatusTooManyRequests && status < 500 {
			return status, nil
		}
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return status, ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return status, err
}

// sendWebhook posts {event, data} to the configured URL. Best effort.
func (n *Notifier) sendWebhook(ctx context.Context, event string, data map[string]interface{}) {
	if n.cfg.WebhookURL == "" {
		log.Printf("notify: no WEBHOOK_URL configured, skipping webhook %s", event)
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  data,
	})
	if err != nil {
		log.Printf("notify: marshal webhook %s: %v", event, err)
		return
	}

	client := &http.Client{Timeout: 10 * time.Second}
	status, err := doWithRetry(ctx, 3, 2*time.Second, func() (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(payload))
		if err != nil {
			return 0, err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		if err != nil {
			return 0, err
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return resp.StatusCode, nil
	})
	if err != nil || status >= 400 {
		log.Printf("notify: webhook %s failed (status %d): %v", event, status, err)
		return
	}
	log.Printf("notify: webhook %s sent to %s", event, n.cfg.WebhookURL)
}
