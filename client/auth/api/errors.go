package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error is a non-2xx response of the remote service. A payload is either a
// single Detail message or a mapping of field to messages; both are kept as
// received so callers decide how to present them.
type Error struct {
	StatusCode int
	Detail     string
	Code       string
	Fields     map[string][]string
}

func (e *Error) Error() string {
	messages := e.Messages()
	if len(messages) == 0 {
		return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), strings.Join(messages, " "))
}

// Messages flattens the payload: the detail first, then field messages ordered by field name.
func (e *Error) Messages() []string {
	var messages []string
	if e.Detail != "" {
		messages = append(messages, e.Detail)
	}
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		messages = append(messages, e.Fields[field]...)
	}
	return messages
}

func newError(statusCode int, body []byte) *Error {
	ret := &Error{StatusCode: statusCode}
	payload := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &payload); err != nil {
		ret.Detail = strings.TrimSpace(string(body))
		return ret
	}
	for key, raw := range payload {
		var text string
		switch key {
		case "detail":
			if json.Unmarshal(raw, &text) == nil {
				ret.Detail = text
			}
			continue
		case "code":
			if json.Unmarshal(raw, &text) == nil {
				ret.Code = text
			}
			continue
		}
		if ret.Fields == nil {
			ret.Fields = map[string][]string{}
		}
		var list []string
		switch {
		case json.Unmarshal(raw, &list) == nil:
			ret.Fields[key] = list
		case json.Unmarshal(raw, &text) == nil:
			ret.Fields[key] = []string{text}
		default:
			ret.Fields[key] = []string{string(raw)}
		}
	}
	return ret
}
