/*
Package executor sends HTTP requests built in the request panel.

# Overview

Send takes a types.Request whose headers are raw "Key: Value" lines, parses
them, and performs the request with a client created by NewClient. The
client honours the user settings:

  - http.timeout (seconds, 0 disables the limit)
  - http.follow_redirects and http.max_redirects
  - proxy.url and proxy.no_proxy
  - ssl.verify, ssl.ca_cert, ssl.client_cert and ssl.client_key

A body is attached only for POST, PUT, PATCH, DELETE and custom methods.

# Cancellation

Send blocks until the response body is read or ctx is done. The TUI runs it
inside a tea.Cmd with a cancellable context; cancelling returns ErrCanceled.

# Errors

Failures are typed so callers can branch with errors.Is / errors.As:

	ErrTimeout, ErrCanceled, ErrTooManyRedirects
	*HeaderError, *URLError, *MethodError, *ConnectError, *DecodeError

Describe converts any of them into the short message shown in the status
bar, for example "Connection failed: api.example.com" or
"Invalid URL: missing scheme (try https://)".

# Example Usage

	client, err := executor.NewClient(settings)
	if err != nil {
		return err
	}
	resp, err := executor.Send(ctx, client, &types.Request{
		Method:  types.MethodPost,
		URL:     "https://api.example.com/users",
		Headers: "Content-Type: application/json",
		Body:    `{"name":"perseus"}`,
	})
	if err != nil {
		status = executor.Describe(err)
	}
*/
package executor
