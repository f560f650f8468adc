package slash

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Field names as sent by the chat server.
const (
	FieldToken       = "token"
	FieldUserName    = "user_name"
	FieldText        = "text"
	FieldCommand     = "command"
	FieldChannelName = "channel_name"
	FieldTeamDomain  = "team_domain"
	FieldResponseURL = "response_url"
)

var ErrMalformedBody = errors.New("malformed request body")

// FieldTypeError reports a known JSON field carrying a value of the wrong type.
type FieldTypeError struct {
	Field string
	Got   string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %q: expected string, got %s", e.Field, e.Got)
}

// Request is a slash-command invocation decoded from a webhook body.
type Request struct {
	Token       string
	UserName    string
	Text        string
	Command     string
	ChannelName string
	TeamDomain  string
	ResponseURL string

	present map[string]bool
}

// Has reports whether the field was present in the body, even if empty.
func (r Request) Has(field string) bool {
	return r.present[field]
}

// Words returns the whitespace-separated tokens of the command text.
func (r Request) Words() []string {
	return strings.Fields(r.Text)
}

func (r *Request) set(field, value string) bool {
	switch field {
	case FieldToken:
		r.Token = value
	case FieldUserName:
		r.UserName = value
	case FieldText:
		r.Text = value
	case FieldCommand:
		r.Command = value
	case FieldChannelName:
		r.ChannelName = value
	case FieldTeamDomain:
		r.TeamDomain = value
	case FieldResponseURL:
		r.ResponseURL = value
	default:
		return false
	}
	if r.present == nil {
		r.present = make(map[string]bool)
	}
	r.present[field] = true
	return true
}

// ParseForm decodes an "&"-joined list of key=value pairs. Pairs that do not
// split into exactly two parts are skipped.
func ParseForm(body string) Request {
	var req Request
	for _, elem := range strings.Split(body, "&") {
		pair := strings.Split(elem, "=")
		if len(pair) != 2 {
			continue
		}
		req.set(pair[0], unescape(pair[1]))
	}
	return req
}

func unescape(value string) string {
	if v, err := url.QueryUnescape(value); err == nil {
		return v
	}
	return strings.ReplaceAll(value, "+", " ")
}

// ParseJSON decodes a JSON object body. Unknown fields are ignored; known
// fields must be strings.
func ParseJSON(body []byte) (Request, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(body), &raw); err != nil || raw == nil {
		return Request{}, ErrMalformedBody
	}

	var req Request
	for key, value := range raw {
		if !isKnownField(key) || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return Request{}, &FieldTypeError{Field: key, Got: jsonKind(value)}
		}
		req.set(key, s)
	}
	return req, nil
}

func isKnownField(key string) bool {
	var probe Request
	return probe.set(key, "")
}

func jsonKind(value json.RawMessage) string {
	v := bytes.TrimSpace(value)
	if len(v) == 0 {
		return "nothing"
	}
	switch v[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	default:
		return "number"
	}
}
