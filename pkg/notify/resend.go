package notify

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/imroc/req/v3"
)

const DefaultResendURL = "https://api.resend.com"

// ResendSender posts emails to the Resend HTTP API.
type ResendSender struct {
	client *req.Client
	from   string
}

func NewResendSender(baseURL, apiKey, from string, timeout time.Duration) *ResendSender {
	if baseURL == "" {
		baseURL = DefaultResendURL
	}
	return &ResendSender{
		client: req.C().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetCommonBearerAuthToken(apiKey).
			SetTimeout(timeout),
		from: from,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendError struct {
	Message string `json:"message"`
}

func (s *ResendSender) Send(ctx context.Context, msg *Email) (json.RawMessage, error) {
	var failure resendError
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(&resendRequest{From: s.from, To: msg.To, Subject: msg.Subject, HTML: msg.HTML}).
		SetErrorResult(&failure).
		Post("/emails")
	if err != nil {
		return nil, err
	}
	payload := rawPayload(resp.Bytes())
	if resp.IsErrorState() {
		message := failure.Message
		if message == "" {
			message = "Failed to send email"
		}
		return payload, &ProviderError{Provider: "resend", Status: resp.StatusCode, Message: message, Payload: payload}
	}
	return payload, nil
}
