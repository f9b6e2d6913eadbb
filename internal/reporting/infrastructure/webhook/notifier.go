package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"duty-reports/internal/reporting/application"
)

// Notifier posts failed report runs to a chat webhook as a text message.
type Notifier struct {
	url    string
	client *http.Client
}

type payload struct {
	MsgType string      `json:"msgtype"`
	Text    textContent `json:"text"`
}

type textContent struct {
	Content string `json:"content"`
}

// NewNotifier constructs a notifier. A zero timeout means 10s.
func NewNotifier(url string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// NotifyReportFailed sends evt to the webhook.
func (n *Notifier) NotifyReportFailed(ctx context.Context, evt application.ReportFailed) error {
	if n == nil || n.url == "" {
		return errors.New("webhook notifier: empty url")
	}
	body, err := json.Marshal(payload{
		MsgType: "text",
		Text:    textContent{Content: formatFailure(evt)},
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook notifier: status %d", resp.StatusCode)
	}
	return nil
}

func formatFailure(evt application.ReportFailed) string {
	var b strings.Builder
	b.WriteString("[Duty Report Failed]\n")
	fmt.Fprintf(&b, "Run: %s\n", evt.RunID)
	if evt.TenantID != "" {
		fmt.Fprintf(&b, "Tenant: %s\n", evt.TenantID)
	}
	if evt.Actor != "" {
		fmt.Fprintf(&b, "Actor: %s\n", evt.Actor)
	}
	fmt.Fprintf(&b, "Format: %s\n", evt.Format)
	fmt.Fprintf(&b, "Reason: %s\n", evt.Reason)
	if evt.DutyID != "" {
		fmt.Fprintf(&b, "Duty: %s event %d\n", evt.DutyID, evt.EventIndex)
	}
	if evt.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", evt.Error)
	}
	return strings.TrimSpace(b.String())
}
