package executor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/net/http/httpproxy"

	"github.com/studiowebux/perseus/internal/config"
	"github.com/studiowebux/perseus/internal/types"
)

var (
	// ErrTimeout is returned when the client timeout or the context deadline expires
	ErrTimeout = errors.New("request timed out")
	// ErrCanceled is returned when the caller cancels an in-flight request
	ErrCanceled = errors.New("request cancelled")
	// ErrTooManyRedirects is returned when the redirect limit is exceeded
	ErrTooManyRedirects = errors.New("too many redirects")
)

// HeaderError reports a header line that is not "Key: Value"
type HeaderError struct {
	Line string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("Invalid header format: '%s' (expected 'Key: Value')", e.Line)
}

// URLError reports a URL that cannot be sent
type URLError struct {
	URL    string
	Reason string
}

func (e *URLError) Error() string {
	return "Invalid URL: " + e.Reason
}

// MethodError reports a custom method that is not a valid token
type MethodError struct {
	Method string
}

func (e *MethodError) Error() string {
	return fmt.Sprintf("Invalid HTTP method '%s'", e.Method)
}

// ConnectError reports a failure to reach the host
type ConnectError struct {
	Host string
	Err  error
}

func (e *ConnectError) Error() string {
	if e.Host == "" {
		return "Connection failed"
	}
	return "Connection failed: " + e.Host
}

func (e *ConnectError) Unwrap() error { return e.Err }

// DecodeError reports a failure while reading the response body
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "Failed to decode response body"
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ParseHeaders parses raw "Key: Value" lines. Blank lines are skipped.
func ParseHeaders(raw string) ([]types.Header, error) {
	var headers []types.Header
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &HeaderError{Line: line}
		}
		headers = append(headers, types.Header{Key: key, Value: strings.TrimSpace(value)})
	}
	return headers, nil
}

// NewClient builds an HTTP client from the user settings: timeout, redirect
// policy, proxy and TLS
func NewClient(s *config.Settings) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if s.Proxy.URL != "" {
		proxy := (&httpproxy.Config{
			HTTPProxy:  s.Proxy.URL,
			HTTPSProxy: s.Proxy.URL,
			NoProxy:    s.Proxy.NoProxy,
		}).ProxyFunc()
		transport.Proxy = func(r *http.Request) (*url.URL, error) {
			return proxy(r.URL)
		}
	}

	tlsCfg, err := buildTLSConfig(s.SSL)
	if err != nil {
		return nil, err
	}
	transport.TLSClientConfig = tlsCfg

	maxRedirects := s.HTTP.MaxRedirects
	follow := s.HTTP.FollowRedirects
	return &http.Client{
		Timeout:   s.HTTP.TimeoutDuration(),
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if !follow {
				return http.ErrUseLastResponse
			}
			if len(via) > maxRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}, nil
}

// buildTLSConfig creates the TLS configuration with optional CA and client certificate
func buildTLSConfig(s config.SSLSettings) (*tls.Config, error) {
	tlsCfg := &tls.Config{
		InsecureSkipVerify: !s.Verify,
	}

	if s.ClientCert != "" && s.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(s.ClientCert, s.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	if s.CACert != "" {
		caCert, err := os.ReadFile(s.CACert)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate")
		}
		tlsCfg.RootCAs = pool
	}

	return tlsCfg, nil
}

// Send performs req with client. The request is aborted when ctx is done.
// Headers come from the raw header text; the body is only attached for
// methods that carry one.
func Send(ctx context.Context, client *http.Client, req *types.Request) (*types.Response, error) {
	method := types.ParseMethod(string(req.Method))
	if !validMethod(string(method)) {
		return nil, &MethodError{Method: string(method)}
	}

	headers, err := ParseHeaders(req.Headers)
	if err != nil {
		return nil, err
	}

	target := strings.TrimSpace(req.URL)
	if err := checkURL(target); err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	requestSize := 0
	if req.Body != "" && method.SendsBody() {
		bodyReader = strings.NewReader(req.Body)
		requestSize = len(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(method), target, bodyReader)
	if err != nil {
		return nil, &URLError{URL: target, Reason: err.Error()}
	}
	for _, h := range headers {
		httpReq.Header.Add(h.Key, h.Value)
	}
	applyAuth(httpReq, req.Auth)

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, classify(ctx, httpReq.URL, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, classify(ctx, httpReq.URL, ctxErr)
		}
		return nil, &DecodeError{Err: err}
	}
	duration := time.Since(start)

	return &types.Response{
		Status:       resp.StatusCode,
		StatusText:   http.StatusText(resp.StatusCode),
		Headers:      sortedHeaders(resp.Header),
		Body:         string(bodyBytes),
		Duration:     duration,
		RequestSize:  requestSize,
		ResponseSize: len(bodyBytes),
	}, nil
}

func checkURL(raw string) error {
	if raw == "" {
		return &URLError{URL: raw, Reason: "empty"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &URLError{URL: raw, Reason: err.Error()}
	}
	if u.Scheme == "" || (u.Host == "" && u.Opaque != "") {
		return &URLError{URL: raw, Reason: "missing scheme (try https://)"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &URLError{URL: raw, Reason: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return &URLError{URL: raw, Reason: "missing host"}
	}
	return nil
}

// validMethod reports whether m is an RFC 7230 token
func validMethod(m string) bool {
	if m == "" {
		return false
	}
	for _, r := range m {
		if r <= ' ' || r >= 0x7f || strings.ContainsRune("()<>@,;:\\\"/[]?={}", r) {
			return false
		}
	}
	return true
}

func applyAuth(r *http.Request, auth *types.Auth) {
	if auth == nil {
		return
	}
	switch auth.Type {
	case types.AuthBearer:
		if auth.Token != "" {
			r.Header.Set("Authorization", "Bearer "+auth.Token)
		}
	case types.AuthBasic:
		r.SetBasicAuth(auth.Username, auth.Password)
	case types.AuthAPIKey:
		if auth.Key == "" {
			return
		}
		if auth.In == "query" {
			q := r.URL.Query()
			q.Set(auth.Key, auth.Value)
			r.URL.RawQuery = q.Encode()
			return
		}
		r.Header.Set(auth.Key, auth.Value)
	}
}

// sortedHeaders flattens the header map in key order so the display is stable
func sortedHeaders(h http.Header) []types.Header {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]types.Header, 0, len(keys))
	for _, k := range keys {
		for _, v := range h[k] {
			out = append(out, types.Header{Key: k, Value: v})
		}
	}
	return out
}

// classify maps a transport error onto the package's error types
func classify(ctx context.Context, target *url.URL, err error) error {
	switch {
	case errors.Is(err, ErrTooManyRedirects):
		return ErrTooManyRedirects
	case errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled):
		return ErrCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) || (errors.As(err, &opErr) && opErr.Op == "dial") {
		return &ConnectError{Host: target.Hostname(), Err: err}
	}

	return fmt.Errorf("request failed: %w", err)
}

// Describe turns a Send error into a short message for the status bar
func Describe(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrCanceled):
		return "Request cancelled"
	case errors.Is(err, ErrTimeout):
		return "Request timed out"
	case errors.Is(err, ErrTooManyRedirects):
		return "Too many redirects"
	}

	var (
		headerErr  *HeaderError
		urlErr     *URLError
		methodErr  *MethodError
		connectErr *ConnectError
		decodeErr  *DecodeError
	)
	switch {
	case errors.As(err, &headerErr):
		return headerErr.Error()
	case errors.As(err, &urlErr):
		return urlErr.Error()
	case errors.As(err, &methodErr):
		return methodErr.Error()
	case errors.As(err, &connectErr):
		return connectErr.Error()
	case errors.As(err, &decodeErr):
		return decodeErr.Error()
	}

	msg := err.Error()
	if strings.HasPrefix(msg, "request failed: ") {
		msg = "Request failed: " + strings.TrimPrefix(msg, "request failed: ")
	}
	return msg
}

// FormatDuration formats a duration for the status line
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// FormatSize formats a byte size for the status line
func FormatSize(bytes int) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}

// IsRedirectStatus returns true if status code is 3xx
func IsRedirectStatus(status int) bool {
	return status >= 300 && status < 400
}

// IsClientErrorStatus returns true if status code is 4xx
func IsClientErrorStatus(status int) bool {
	return status >= 400 && status < 500
}

// IsServerErrorStatus returns true if status code is 5xx
func IsServerErrorStatus(status int) bool {
	return status >= 500 && status < 600
}
