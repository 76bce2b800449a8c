package models

import (
	apperrors "urja-assistant/internal/common/errors"
)

// Envelope is the uniform response shape returned for every request. It is
// created fresh per request and carries no persisted identity.
type Envelope struct {
	OK     bool                   `json:"ok"`
	Intent *string                `json:"intent"`
	Data   map[string]interface{} `json:"data,omitempty"`
	Error  *EnvelopeError         `json:"error,omitempty"`
	Meta   map[string]interface{} `json:"meta"`
}

type EnvelopeError struct {
	Code    apperrors.Code         `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
}

// Ok builds a success envelope for intent with the given data payload.
func Ok(intent string, data map[string]interface{}, meta map[string]interface{}) Envelope {
	if meta == nil {
		meta = map[string]interface{}{}
	}
	return Envelope{
		OK:     true,
		Intent: &intent,
		Data:   data,
		Meta:   meta,
	}
}

// Err builds a failure envelope. Intent may be empty when classification never
// established one.
func Err(code apperrors.Code, message string, intent string, details map[string]interface{}) Envelope {
	var ip *string
	if intent != "" {
		ip = &intent
	}
	if details == nil {
		details = map[string]interface{}{}
	}
	return Envelope{
		OK:     false,
		Intent: ip,
		Error: &EnvelopeError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: map[string]interface{}{},
	}
}

// WithMeta returns a copy of the envelope with an added meta entry.
func (e Envelope) WithMeta(key string, value interface{}) Envelope {
	meta := make(map[string]interface{}, len(e.Meta)+1)
	for k, v := range e.Meta {
		meta[k] = v
	}
	meta[key] = value
	e.Meta = meta
	return e
}
