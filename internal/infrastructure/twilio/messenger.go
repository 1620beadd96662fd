// Package twilio sends outbound WhatsApp messages through the Twilio
// Content API: a messaging-service SID plus a content template SID and
// positional content variables.
package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.twilio.com"

// Messenger implements the flow manager's Messenger port.
type Messenger struct {
	accountSID          string
	authToken           string
	messagingServiceSID string
	baseURL             string
	client              *http.Client
	logger              zerolog.Logger
}

func NewMessenger(accountSID, authToken, messagingServiceSID, baseURL string, logger zerolog.Logger) *Messenger {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Messenger{
		accountSID:          accountSID,
		authToken:           authToken,
		messagingServiceSID: messagingServiceSID,
		baseURL:             baseURL,
		client:              &http.Client{Timeout: 15 * time.Second},
		logger:              logger.With().Str("service", "twilio").Logger(),
	}
}

// Send dispatches one template message. The template identifier and the
// positional argument map pass through unmodified.
func (m *Messenger) Send(ctx context.Context, to, template string, args map[string]string) error {
	form := url.Values{}
	form.Set("MessagingServiceSid", m.messagingServiceSID)
	form.Set("ContentSid", template)
	form.Set("To", to)
	if len(args) > 0 {
		vars, err := json.Marshal(args)
		if err != nil {
			return err
		}
		form.Set("ContentVariables", string(vars))
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", m.baseURL, m.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(m.accountSID, m.authToken)

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("twilio send failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	m.logger.Debug().Str("to", to).Str("template", template).Msg("message dispatched")
	return nil
}
