package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	logx "parishpress/pkg/logx"
)

// logSink is always present: every notification lands in the structured log.
type logSink struct {
	log logx.Logger
}

func (s logSink) Deliver(ctx context.Context, n Notification) error {
	_ = ctx
	if n.Kind == KindError {
		s.log.Warn(n.Message, logx.String("notify", string(n.Kind)), logx.String("item", n.ItemID))
	} else {
		s.log.Info(n.Message, logx.String("notify", string(n.Kind)), logx.String("item", n.ItemID))
	}
	return nil
}

// webhookSink POSTs each notification as a JSON document.
type webhookSink struct {
	url  string
	http *http.Client
}

func newWebhookSink(url string, timeout time.Duration) *webhookSink {
	return &webhookSink{url: url, http: &http.Client{Timeout: timeout}}
}

func (s *webhookSink) Deliver(ctx context.Context, n Notification) error {
	b, err := json.Marshal(n)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
