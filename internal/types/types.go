package types

import (
	"strings"
	"time"
)

// Method is an HTTP method. Standard methods are upper case; anything else
// is sent verbatim as a custom method.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
)

// StandardMethods is the cycle order used by the method selector
var StandardMethods = []Method{
	MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead, MethodOptions,
}

// ParseMethod normalises s, defaulting to GET when empty
func ParseMethod(s string) Method {
	s = strings.TrimSpace(s)
	if s == "" {
		return MethodGet
	}
	upper := Method(strings.ToUpper(s))
	for _, m := range StandardMethods {
		if m == upper {
			return m
		}
	}
	return Method(s)
}

// IsStandard reports whether m is one of StandardMethods
func (m Method) IsStandard() bool {
	for _, s := range StandardMethods {
		if s == m {
			return true
		}
	}
	return false
}

// SendsBody reports whether a body is attached for this method
func (m Method) SendsBody() bool {
	switch m {
	case MethodGet, MethodHead, MethodOptions:
		return false
	}
	return true
}

// Next returns the following standard method, wrapping around. Custom
// methods go back to GET.
func (m Method) Next() Method {
	for i, s := range StandardMethods {
		if s == m {
			return StandardMethods[(i+1)%len(StandardMethods)]
		}
	}
	return MethodGet
}

// Prev returns the preceding standard method, wrapping around
func (m Method) Prev() Method {
	for i, s := range StandardMethods {
		if s == m {
			return StandardMethods[(i-1+len(StandardMethods))%len(StandardMethods)]
		}
	}
	return MethodGet
}

// AuthType selects how credentials are attached to a request
type AuthType string

const (
	AuthNone   AuthType = ""
	AuthBearer AuthType = "bearer"
	AuthBasic  AuthType = "basic"
	AuthAPIKey AuthType = "apikey"
)

// Auth holds request credentials. Only the fields of Type are used.
type Auth struct {
	Type     AuthType `json:"type" yaml:"type"`
	Token    string   `json:"token,omitempty" yaml:"token,omitempty"`
	Username string   `json:"username,omitempty" yaml:"username,omitempty"`
	Password string   `json:"password,omitempty" yaml:"password,omitempty"`
	Key      string   `json:"key,omitempty" yaml:"key,omitempty"`
	Value    string   `json:"value,omitempty" yaml:"value,omitempty"`
	// In is "header" or "query" for API keys
	In string `json:"in,omitempty" yaml:"in,omitempty"`
}

// Request is an editable HTTP request. Headers are kept as raw
// "Key: Value" lines, exactly as typed in the headers field.
type Request struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Method  Method `json:"method"`
	URL     string `json:"url"`
	Headers string `json:"headers,omitempty"`
	Body    string `json:"body,omitempty"`
	Auth    *Auth  `json:"auth,omitempty"`
}

// Header is a single response header
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response contains the HTTP response data
type Response struct {
	Status       int           `json:"status"`
	StatusText   string        `json:"statusText"`
	Headers      []Header      `json:"headers"`
	Body         string        `json:"body"`
	Duration     time.Duration `json:"duration"`
	RequestSize  int           `json:"requestSize"`
	ResponseSize int           `json:"responseSize"`
}

// Header returns the first value of the header named key, case-insensitively
func (r *Response) Header(key string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Key, key) {
			return h.Value
		}
	}
	return ""
}

// ContentType returns the Content-Type header
func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

// HeaderText renders the headers as "Key: Value" lines
func (r *Response) HeaderText() string {
	lines := make([]string, len(r.Headers))
	for i, h := range r.Headers {
		lines[i] = h.Key + ": " + h.Value
	}
	return strings.Join(lines, "\n")
}

// HistoryEntry represents a saved request/response pair
type HistoryEntry struct {
	ID                 int64         `json:"id"`
	Timestamp          time.Time     `json:"timestamp"`
	RequestID          string        `json:"requestId,omitempty"`
	RequestName        string        `json:"requestName,omitempty"`
	Method             Method        `json:"method"`
	URL                string        `json:"url"`
	Headers            string        `json:"headers,omitempty"`
	Body               string        `json:"body,omitempty"`
	ResponseStatus     int           `json:"responseStatus"`
	ResponseStatusText string        `json:"responseStatusText"`
	ResponseHeaders    []Header      `json:"responseHeaders"`
	ResponseBody       string        `json:"responseBody"`
	Duration           time.Duration `json:"duration"`
	RequestSize        int           `json:"requestSize,omitempty"`
	ResponseSize       int           `json:"responseSize,omitempty"`
	Error              string        `json:"error,omitempty"`
}
