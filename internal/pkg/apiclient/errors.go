package apiclient

import (
	"encoding/json"
	"errors"
)

// requestFailed is shown for transport failures and error bodies without a message.
const requestFailed = "Request failed"

type Kind string

const (
	// KindTransport covers connection failures, timeouts and unreadable responses.
	KindTransport Kind = "transport"
	// KindApplication is a non-2xx response from the remote API.
	KindApplication Kind = "application"
)

// Error is the single error shape returned by every client call. Message is
// human readable and safe to show to the administrator as-is.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsStatus reports whether err is an application error with the given status.
func IsStatus(err error, status int) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == KindApplication && apiErr.Status == status
}

// errorMessage picks the server-supplied message out of an error body. The
// "error" field may be a plain string or an object carrying "message".
func errorMessage(raw []byte) string {
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return requestFailed
	}
	if msg := messageFrom(body.Error); msg != "" {
		return msg
	}
	if body.Message != "" {
		return body.Message
	}
	return requestFailed
}

func messageFrom(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Message
	}
	return ""
}
