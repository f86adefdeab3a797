package tui

import (
	"crypto/x509"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/studiowebux/perseus/internal/executor"
)

// requestErrorHint suggests what to check after a failed send. It returns ""
// when there is nothing useful to add to executor.Describe.
func requestErrorHint(err error) string {
	if err == nil || errors.Is(err, executor.ErrCanceled) {
		return ""
	}

	switch {
	case errors.Is(err, executor.ErrTimeout):
		return "The server took too long to respond - raise http.timeout in config.toml (0 disables it)"
	case errors.Is(err, executor.ErrTooManyRedirects):
		return "Check the server's redirect chain or raise http.max_redirects"
	}

	var (
		urlErr     *executor.URLError
		headerErr  *executor.HeaderError
		unknownCA  x509.UnknownAuthorityError
		invalidCrt x509.CertificateInvalidError
		hostname   x509.HostnameError
		dnsErr     *net.DNSError
	)
	switch {
	case errors.As(err, &urlErr):
		return "URLs need a scheme and a host, e.g. https://api.example.com/path"
	case errors.As(err, &headerErr):
		return "Headers are one \"Key: Value\" per line"
	case errors.As(err, &unknownCA):
		return "TLS certificate signed by unknown authority - set ssl.ca_cert or ssl.verify = false (insecure)"
	case errors.As(err, &invalidCrt):
		return "TLS certificate is invalid - contact the server administrator or set ssl.verify = false (insecure)"
	case errors.As(err, &hostname):
		return "TLS hostname mismatch - the certificate doesn't match the requested host"
	case errors.As(err, &dnsErr):
		return "DNS resolution failed - verify the hostname and that the network is available"
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "Connection refused - check the server is running and the port is correct"
	case errors.Is(err, syscall.ECONNRESET):
		return "Connection reset by server - it may have crashed or closed the connection"
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return "Network unreachable - check the network connection and firewall settings"
	}

	return categorizeRequestError(err.Error())
}

// categorizeRequestError falls back to the error text for failures without
// a typed cause
func categorizeRequestError(errStr string) string {
	errLower := strings.ToLower(errStr)

	// proxy errors often contain "connection refused", check them first
	if strings.Contains(errLower, "proxy") {
		return "Proxy connection failed - verify proxy.url and proxy.no_proxy"
	}
	if strings.Contains(errLower, "connection refused") {
		return "Connection refused - check the server is running and the port is correct"
	}
	if strings.Contains(errLower, "no such host") {
		return "DNS resolution failed - verify the hostname and that the network is available"
	}
	if strings.Contains(errLower, "tls") ||
		strings.Contains(errLower, "x509") ||
		strings.Contains(errLower, "certificate") {
		return categorizeSSLError(errLower)
	}
	if strings.Contains(errLower, "eof") {
		return "Connection closed unexpectedly - the server terminated the connection"
	}
	return ""
}

// categorizeSSLError gives specific guidance for TLS failures
func categorizeSSLError(errLower string) string {
	switch {
	case strings.Contains(errLower, "unknown authority"):
		return "TLS certificate signed by unknown authority - set ssl.ca_cert or ssl.verify = false (insecure)"
	case strings.Contains(errLower, "expired"):
		return "TLS certificate has expired - contact the server administrator or set ssl.verify = false (insecure)"
	case strings.Contains(errLower, "certificate is valid for"):
		return "TLS hostname mismatch - the certificate doesn't match the requested host"
	case strings.Contains(errLower, "certificate required"), strings.Contains(errLower, "bad certificate"):
		return "The server rejected the client certificate - check ssl.client_cert and ssl.client_key"
	case strings.Contains(errLower, "handshake"):
		return "TLS handshake failed - check TLS version and cipher compatibility"
	}
	return "TLS error - check the ssl settings in config.toml"
}
