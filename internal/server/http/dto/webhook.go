package dto

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// WebhookEvent is the envelope posted by the payment gateway. Older
// deliveries use topic and a top-level id instead of type and data.id.
type WebhookEvent struct {
	Type  string          `json:"type"`
	Topic string          `json:"topic"`
	ID    json.RawMessage `json:"id"`
	Data  struct {
		ID json.RawMessage `json:"id"`
	} `json:"data"`
}

// Notification resolves the event type and payment id, preferring the body
// and falling back to query parameters.
func (e WebhookEvent) Notification(query url.Values) model.Notification {
	n := model.Notification{
		Type:      firstNonEmpty(e.Type, e.Topic, query.Get("type"), query.Get("topic")),
		PaymentID: firstNonEmpty(rawID(e.Data.ID), rawID(e.ID), query.Get("data.id"), query.Get("id")),
	}
	return n
}

// rawID accepts both "123" and 123.
func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
