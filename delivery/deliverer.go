package delivery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/marcelsud/webhook-relay/subscription"
	"github.com/marcelsud/webhook-relay/webhook"
	"github.com/marcelsud/webhook-relay/webhook/signature"
)

const userAgent = "webhook-relay/1.0"

// Result captures the observed outcome of one outbound delivery call
type Result struct {
	StatusCode  *int // nil when the call never completed
	ErrorDetail string
	Success     bool
}

// Deliverer performs the outbound call for a claimed webhook
type Deliverer interface {
	Deliver(ctx context.Context, sub subscription.Subscription, wh webhook.Webhook) Result
}

/* HTTPDeliverer POSTs the raw payload to the subscription target URL.
 * The call is bounded by a hard timeout: a hung target is a failed
 * attempt, never a stuck worker. Success is any 2xx status
 */
type HTTPDeliverer struct {
	client *http.Client
}

// NewHTTPDeliverer creates a deliverer with the given per-call timeout
func NewHTTPDeliverer(timeout time.Duration) *HTTPDeliverer {
	return &HTTPDeliverer{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Deliver performs one HTTP delivery attempt
func (d *HTTPDeliverer) Deliver(ctx context.Context, sub subscription.Subscription, wh webhook.Webhook) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.TargetURL, bytes.NewReader(wh.Payload))
	if err != nil {
		return Result{ErrorDetail: webhook.TruncateErrorDetail(fmt.Sprintf("building request: %v", err))}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Webhook-ID", wh.ID)
	if wh.EventType != "" {
		req.Header.Set("X-Webhook-Event", wh.EventType)
	}
	if sub.SecretKey != "" {
		req.Header.Set("X-Hub-Signature-256", signature.Header(wh.Payload, sub.SecretKey))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		// Network error or timeout: no status code was observed
		return Result{ErrorDetail: webhook.TruncateErrorDetail(err.Error())}
	}
	defer resp.Body.Close()

	statusCode := resp.StatusCode
	success := statusCode >= 200 && statusCode < 300

	var detail string
	if !success {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		detail = webhook.TruncateErrorDetail(string(body))
	}

	return Result{
		StatusCode:  &statusCode,
		ErrorDetail: detail,
		Success:     success,
	}
}
