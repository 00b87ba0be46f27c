// Copyright 2024 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

// ErrorCode represents the failure categories raised by the common layer.
type ErrorCode string

const (
	// Serialization indicates a response that could not be decoded.
	Serialization ErrorCode = "SERIALIZATION"

	// Server indicates an error response from the backend.
	Server ErrorCode = "SERVER"

	// InvalidAPIKey indicates the backend rejected the API key.
	InvalidAPIKey ErrorCode = "INVALID_API_KEY"

	// PromptBlocked indicates the prompt was blocked by the safety filters.
	PromptBlocked ErrorCode = "PROMPT_BLOCKED"

	// UnsupportedUserLocation indicates the caller's region is not served.
	UnsupportedUserLocation ErrorCode = "UNSUPPORTED_USER_LOCATION"

	// InvalidState indicates an operation attempted in a state that does not allow it.
	InvalidState ErrorCode = "INVALID_STATE"

	// ResponseStopped indicates generation stopped for a reason other than STOP.
	ResponseStopped ErrorCode = "RESPONSE_STOPPED"

	// RequestTimeout indicates the transport gave up waiting for the backend.
	RequestTimeout ErrorCode = "REQUEST_TIMEOUT"

	// ServiceDisabled indicates the Vertex AI in Firebase API is not enabled for the project.
	ServiceDisabled ErrorCode = "SERVICE_DISABLED"

	// QuotaExceeded indicates the project ran out of quota.
	QuotaExceeded ErrorCode = "QUOTA_EXCEEDED"

	// Unknown is used for every failure that cannot be classified.
	Unknown ErrorCode = "UNKNOWN"
)

const (
	unsupportedUserLocationMessage = "User location is not supported for the API use."
	serviceDisabledReason          = "SERVICE_DISABLED"
	deserializationMessage         = "Something went wrong while trying to deserialize a response from the server."
	unknownMessage                 = "Something unexpected happened."
)

// Error is the error type raised by the common layer.
type Error struct {
	Code    ErrorCode
	Message string

	// Response is the response that caused the error. Only set for PromptBlocked and
	// ResponseStopped.
	Response *GenerateContentResponse

	cause error
}

// NewError creates a new Error from the given code, message and optional cause.
func NewError(code ErrorCode, msg string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: msg,
		cause:   cause,
	}
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause of the error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// HasErrorCode checks if the given error chain contains an Error with the specified code.
func HasErrorCode(err error, code ErrorCode) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Code == code
}

// From converts an arbitrary failure raised while talking to the backend into an Error.
//
// Errors raised by this package are returned as is. Context deadlines are also returned as is,
// so that the caller can tell its own timeout apart from a transport timeout.
func From(err error) error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if isSerializationError(err) {
		return NewError(Serialization, deserializationMessage, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewError(RequestTimeout, fmt.Sprintf("The request timed out: %v", netErr), err)
	}

	return NewError(Unknown, unknownMessage, err)
}

func isSerializationError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// ClassifyServerError converts an error response from the backend into an Error.
//
// The message and ErrorInfo reasons of the response decide the code, checked in this order:
// invalid API key, unsupported user location, exhausted quota, disabled service. Anything else
// is a Server error.
func ClassifyServerError(message string, reasons []string, cause error) *Error {
	switch {
	case strings.Contains(message, "API key not valid"):
		return NewError(InvalidAPIKey, message, cause)
	case message == unsupportedUserLocationMessage:
		return NewError(UnsupportedUserLocation, message, cause)
	case strings.Contains(message, "quota"):
		return NewError(QuotaExceeded, message, cause)
	case containsString(reasons, serviceDisabledReason):
		return NewError(ServiceDisabled, message, cause)
	default:
		return NewError(Server, message, cause)
	}
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
