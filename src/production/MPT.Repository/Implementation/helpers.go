package implementation

import "encoding/json"

// ensureBodyNotEmpty turns an empty response body into an empty JSON array
func ensureBodyNotEmpty(body []byte) json.RawMessage {
	if len(body) == 0 {
		return json.RawMessage("[]")
	}
	return json.RawMessage(body)
}
