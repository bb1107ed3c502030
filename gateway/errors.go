package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorKind int

const (
	// KindTransport covers network failures and cancelled requests.
	KindTransport ErrorKind = iota
	// KindRejected is a non-2xx answer from the server (validation, auth).
	KindRejected
	// KindDecode is a 2xx answer whose body did not match the contract.
	KindDecode
	// KindInvalidInput is raised before any request is sent.
	KindInvalidInput
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRejected:
		return "rejected"
	case KindDecode:
		return "decode"
	case KindInvalidInput:
		return "invalid input"
	}
	return "unknown"
}

// Error is the typed failure every gateway call returns.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func TransportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: err.Error(), Err: err}
}

func DecodeError(err error) *Error {
	return &Error{Kind: KindDecode, Message: "malformed response: " + err.Error(), Err: err}
}

// errorBody lists the field names the server uses for error messages.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Msg     string `json:"msg"`
}

// RejectedError builds a failure from a non-2xx response body, preferring a
// structured message and falling back to the status text.
func RejectedError(status int, body []byte) *Error {
	msg := ""
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		switch {
		case eb.Message != "":
			msg = eb.Message
		case eb.Error != "":
			msg = eb.Error
		case eb.Msg != "":
			msg = eb.Msg
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
		if len(msg) > 200 || strings.HasPrefix(msg, "{") || strings.HasPrefix(msg, "<") {
			msg = ""
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Kind: KindRejected, Status: status, Message: msg}
}

// Message extracts the human-readable message from any error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return err.Error()
}
