package sdk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// encodeBody serializes a request body. Values produced by models.ToMap are
// always encodable; other callers of NewRequest may pass anything.
func encodeBody(body map[string]any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request body: %w", err)
	}
	return data, nil
}

// decodePayload decodes a JSON body keeping numbers as json.Number, so that
// large IDs survive and models can tell integers from floats. An empty body
// decodes to nil.
func decodePayload(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to deserialize response body: %w", err)
	}
	return payload, nil
}

// decodeErrorPayload decodes the body of a failed response. Proxies in front
// of the API answer with HTML or plain text; such bodies are kept as the
// detail so that Response.ErrorMessage stays informative.
func decodeErrorPayload(raw []byte) any {
	payload, err := decodePayload(raw)
	if err != nil {
		return map[string]any{"detail": strings.TrimSpace(string(raw))}
	}
	return payload
}
