package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// HTMXResponse builds fragment responses with HX-Trigger headers so the
// page can refresh its transaction list and summary after a write.
type HTMXResponse struct {
	triggers   map[string]any
	statusCode int
	body       string
}

func NewHTMXResponse() *HTMXResponse {
	return &HTMXResponse{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
	}
}

func (b *HTMXResponse) Status(code int) *HTMXResponse {
	b.statusCode = code
	return b
}

// Trigger adds a named client-side event to the HX-Trigger header.
func (b *HTMXResponse) Trigger(name string, data any) *HTMXResponse {
	b.triggers[name] = data
	return b
}

// TriggerChanged signals that transaction data changed and dependent
// views should refresh.
func (b *HTMXResponse) TriggerChanged() *HTMXResponse {
	return b.Trigger("transactions:changed", struct{}{})
}

// Success sets a success message fragment.
func (b *HTMXResponse) Success(msg string) *HTMXResponse {
	b.body = `<div class="success">` + template.HTMLEscapeString(msg) + `</div>`
	return b
}

// Error sets an error message fragment along with the status code.
func (b *HTMXResponse) Error(code int, msg string) *HTMXResponse {
	b.statusCode = code
	b.body = `<div class="error">` + template.HTMLEscapeString(msg) + `</div>`
	return b
}

// Write emits headers, triggers, and body to w.
func (b *HTMXResponse) Write(w http.ResponseWriter) {
	if len(b.triggers) > 0 {
		if payload, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(payload))
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write([]byte(b.body))
}

// methodNotAllowed writes a 405 with the Allow header set.
func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	w.WriteHeader(http.StatusMethodNotAllowed)
}
