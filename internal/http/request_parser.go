package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// bodyParser reads a request body once and exposes its fields whether the
// client sent JSON or form-encoded data. Partial updates need to know
// which fields were actually supplied, so Has is part of the contract.
type bodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	err      error
}

func newBodyParser(r *http.Request) *bodyParser {
	p := &bodyParser{}
	p.body, p.err = io.ReadAll(r.Body)
	if p.err != nil {
		return p
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return p
	}

	if p.body[0] == '{' || p.body[0] == '[' {
		p.jsonData = make(map[string]any)
		p.err = json.Unmarshal(p.body, &p.jsonData)
		return p
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p
}

// Has reports whether the field was present in the request at all.
func (p *bodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	if p.formData != nil {
		return p.formData.Has(key)
	}
	return false
}

// Get returns the sanitized string value for key, "" when absent.
func (p *bodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return strings.TrimSpace(string(mustJSON(val)))
	}
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
