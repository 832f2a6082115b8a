// Package notify contains the concrete channel providers behind the
// notification.Sender interface. The dispatcher never knows which provider is
// active; the choice is made by configuration at bootstrap.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"layanan_publik_tracker/internal/domain/notification"
)

const defaultSiCubaEndpoint = "https://app.sicuba.in/api/sendMessage"

// SiCubaSender sends WhatsApp messages through the SiCuba campaign API.
// SiCuba renders the message from a campaign template, so the structured
// message fields are passed as custom fields rather than free text.
type SiCubaSender struct {
	apiToken   string
	campaignID string
	endpoint   string
	httpClient *http.Client
}

func NewSiCubaSender(apiToken, campaignID string) *SiCubaSender {
	return &SiCubaSender{
		apiToken:   apiToken,
		campaignID: campaignID,
		endpoint:   defaultSiCubaEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithEndpoint overrides the API endpoint. Used by tests.
func (s *SiCubaSender) WithEndpoint(endpoint string) *SiCubaSender {
	s.endpoint = endpoint
	return s
}

func (s *SiCubaSender) Channel() notification.Channel {
	return notification.ChannelWhatsApp
}

type sicubaRecipient struct {
	CampaignID   string `json:"campaign_id"`
	Phone        string `json:"phone"`
	Name         string `json:"name"`
	TrackingCode string `json:"tracking_code"`
	JenisLayanan string `json:"jenis_layanan"`
	Status       string `json:"status"`
	TrackingURL  string `json:"tracking_url"`
}

func (s *SiCubaSender) Send(ctx context.Context, msg notification.Message) (string, error) {
	// SiCuba does not accept the leading + on phone numbers.
	body, err := json.Marshal([]sicubaRecipient{{
		CampaignID:   s.campaignID,
		Phone:        strings.TrimPrefix(msg.To, "+"),
		Name:         msg.Name,
		TrackingCode: msg.TrackingCode,
		JenisLayanan: msg.ServiceLabel,
		Status:       msg.StatusLabel,
		TrackingURL:  msg.TrackingURL,
	}})
	if err != nil {
		return "", fmt.Errorf("failed to encode sicuba request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build sicuba request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sicuba request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read sicuba response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("sicuba API error: %d - %s", resp.StatusCode, string(respBody))
	}

	var results []struct {
		CustomerID string `json:"customer_id"`
		Status     string `json:"status"`
	}
	if err := json.Unmarshal(respBody, &results); err != nil || len(results) == 0 {
		// A 2xx with an unexpected body still means the provider accepted it.
		return "unknown", nil
	}
	if results[0].CustomerID == "" {
		return "unknown", nil
	}
	return results[0].CustomerID, nil
}
