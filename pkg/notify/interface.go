// Package notify delivers client-facing messages: WhatsApp texts through an
// Evolution API instance and HTML emails through Resend or SMTP.
//
// Every attempt is written to notification_logs. Nothing is queued or retried;
// a failed send is reported to the caller and forgotten.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hubtav/tavlist/dao/model"
)

// WhatsAppGateway is the outbound messaging provider.
type WhatsAppGateway interface {
	// ConnectionState returns the raw instance state, e.g. "open" or "close".
	ConnectionState(ctx context.Context, cfg *model.WhatsAppConfig) (string, error)
	// SendText returns the provider payload, also on provider errors when there is one.
	SendText(ctx context.Context, cfg *model.WhatsAppConfig, number, text string) (json.RawMessage, error)
}

// EmailSender is the transactional email provider.
type EmailSender interface {
	Send(ctx context.Context, msg *Email) (json.RawMessage, error)
}

type Email struct {
	To      []string
	Subject string
	HTML    string
}

// ProviderError is a non-2xx answer from a gateway.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
	Payload  json.RawMessage
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Message)
}

// rawPayload keeps JSON bodies as they are and quotes anything else.
func rawPayload(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(append([]byte(nil), body...))
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}
