package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"layanan_publik_tracker/internal/domain/notification"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioSender sends WhatsApp messages through the Twilio Messages API.
// Unlike SiCuba it takes the fully rendered message body.
type TwilioSender struct {
	accountSID string
	authToken  string
	from       string // e.g. "whatsapp:+14155238886" for the sandbox
	apiBase    string
	httpClient *http.Client
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return &TwilioSender{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		apiBase:    twilioAPIBase,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithAPIBase overrides the API base URL. Used by tests.
func (t *TwilioSender) WithAPIBase(base string) *TwilioSender {
	t.apiBase = base
	return t
}

func (t *TwilioSender) Channel() notification.Channel {
	return notification.ChannelWhatsApp
}

func (t *TwilioSender) Send(ctx context.Context, msg notification.Message) (string, error) {
	to := msg.To
	if !strings.HasPrefix(to, "whatsapp:") {
		to = "whatsapp:" + to
	}
	from := t.from
	if !strings.HasPrefix(from, "whatsapp:") {
		from = "whatsapp:" + from
	}

	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", msg.Body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.apiBase, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build twilio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read twilio response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("twilio API error: %d - %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil || result.SID == "" {
		return "unknown", nil
	}
	return result.SID, nil
}
