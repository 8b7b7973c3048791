package notify

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/hubtav/tavlist/dao/model"
)

const sendDelayMillis = 1500

// EvolutionClient talks to an Evolution API server. Base URL, instance and key
// come from the stored channel configuration on every call.
type EvolutionClient struct {
	client *req.Client
}

func NewEvolutionClient(timeout time.Duration) *EvolutionClient {
	return &EvolutionClient{
		client: req.C().
			SetTimeout(timeout).
			SetUserAgent("tavlist"),
	}
}

type connectionStateResponse struct {
	Instance *struct {
		State string `json:"state"`
	} `json:"instance"`
	State string `json:"state"`
}

func (r *connectionStateResponse) state() string {
	if r.Instance != nil && r.Instance.State != "" {
		return r.Instance.State
	}
	if r.State != "" {
		return r.State
	}
	return "unknown"
}

// IsOpen reports whether a connection state means the instance can send.
func IsOpen(state string) bool {
	return state == "open" || state == "connected"
}

func endpoint(cfg *model.WhatsAppConfig, action string) string {
	return strings.TrimRight(cfg.APIURL, "/") + action + url.PathEscape(cfg.InstanceName)
}

func (e *EvolutionClient) ConnectionState(ctx context.Context, cfg *model.WhatsAppConfig) (string, error) {
	var body connectionStateResponse
	resp, err := e.client.R().
		SetContext(ctx).
		SetHeader("apikey", cfg.APIKey).
		SetSuccessResult(&body).
		Get(endpoint(cfg, "/instance/connectionState/"))
	if err != nil {
		return "", err
	}
	if resp.IsErrorState() {
		return "", &ProviderError{
			Provider: "evolution",
			Status:   resp.StatusCode,
			Message:  "connection state request failed",
			Payload:  rawPayload(resp.Bytes()),
		}
	}
	return body.state(), nil
}

type sendTextRequest struct {
	Number      string `json:"number"`
	Text        string `json:"text"`
	Delay       int    `json:"delay"`
	LinkPreview bool   `json:"linkPreview"`
}

func (e *EvolutionClient) SendText(ctx context.Context, cfg *model.WhatsAppConfig, number, text string) (json.RawMessage, error) {
	resp, err := e.client.R().
		SetContext(ctx).
		SetHeader("apikey", cfg.APIKey).
		SetBody(&sendTextRequest{Number: number, Text: text, Delay: sendDelayMillis}).
		Post(endpoint(cfg, "/message/sendText/"))
	if err != nil {
		return nil, err
	}
	payload := rawPayload(resp.Bytes())
	if resp.IsErrorState() {
		return payload, &ProviderError{
			Provider: "evolution",
			Status:   resp.StatusCode,
			Message:  "send text failed",
			Payload:  payload,
		}
	}
	return payload, nil
}
