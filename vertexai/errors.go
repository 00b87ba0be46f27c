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

package vertexai

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/vertexai/internal/common"
)

// ErrorCode identifies the category of an Error.
type ErrorCode string

const (
	// Serialization indicates a response from the backend that could not be decoded.
	Serialization ErrorCode = "SERIALIZATION"

	// Server indicates the backend responded with an error.
	Server ErrorCode = "SERVER"

	// InvalidAPIKey indicates the backend rejected the API key.
	InvalidAPIKey ErrorCode = "INVALID_API_KEY"

	// PromptBlocked indicates the prompt was blocked. Error.Response holds the feedback.
	PromptBlocked ErrorCode = "PROMPT_BLOCKED"

	// UnsupportedUserLocation indicates the user's location is not served by the API.
	UnsupportedUserLocation ErrorCode = "UNSUPPORTED_USER_LOCATION"

	// InvalidState indicates an operation attempted in a state that does not allow it.
	InvalidState ErrorCode = "INVALID_STATE"

	// ResponseStopped indicates generation stopped early. Error.Response holds the partial
	// response.
	ResponseStopped ErrorCode = "RESPONSE_STOPPED"

	// RequestTimeout indicates the request did not complete in the allotted time.
	RequestTimeout ErrorCode = "REQUEST_TIMEOUT"

	// InvalidLocation indicates the client was configured with an unusable location.
	InvalidLocation ErrorCode = "INVALID_LOCATION"

	// ServiceDisabled indicates the Vertex AI in Firebase API is disabled for the project.
	ServiceDisabled ErrorCode = "SERVICE_DISABLED"

	// Unknown is used for every failure that does not fit any other code.
	Unknown ErrorCode = "UNKNOWN"
)

const (
	unsupportedUserLocationMessage = "User location is not supported for the API use."
	requestTimeoutMessage          = "The request failed to complete in the allotted time."
	unknownMessage                 = "Something unexpected happened."
	unknownReason                  = "UNKNOWN"
)

// Error is the error type returned by every operation of this package.
type Error struct {
	Code    ErrorCode
	Message string

	// Response is the response that caused the error. Only set for PromptBlocked and
	// ResponseStopped errors.
	Response *GenerateContentResponse

	cause error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause of the error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

func newError(code ErrorCode, msg string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: msg,
		cause:   cause,
	}
}

// NewSerializationError creates a Serialization error.
func NewSerializationError(msg string, cause error) *Error {
	return newError(Serialization, msg, cause)
}

// NewServerError creates a Server error.
func NewServerError(msg string, cause error) *Error {
	return newError(Server, msg, cause)
}

// NewInvalidAPIKeyError creates an InvalidAPIKey error.
func NewInvalidAPIKeyError(msg string, cause error) *Error {
	return newError(InvalidAPIKey, msg, cause)
}

// NewPromptBlockedError creates a PromptBlocked error for the given response.
func NewPromptBlockedError(resp *GenerateContentResponse, cause error) *Error {
	reason := unknownReason
	if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		reason = string(resp.PromptFeedback.BlockReason)
	}
	e := newError(PromptBlocked, fmt.Sprintf("Prompt was blocked: %s", reason), cause)
	e.Response = resp
	return e
}

// NewUnsupportedUserLocationError creates an UnsupportedUserLocation error.
func NewUnsupportedUserLocationError(cause error) *Error {
	return newError(UnsupportedUserLocation, unsupportedUserLocationMessage, cause)
}

// NewInvalidStateError creates an InvalidState error.
func NewInvalidStateError(msg string, cause error) *Error {
	return newError(InvalidState, msg, cause)
}

// NewResponseStoppedError creates a ResponseStopped error for the given response. The message
// names the finish reason of the first candidate.
func NewResponseStoppedError(resp *GenerateContentResponse, cause error) *Error {
	reason := unknownReason
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0] != nil &&
		resp.Candidates[0].FinishReason != "" {
		reason = string(resp.Candidates[0].FinishReason)
	}
	e := newError(ResponseStopped, fmt.Sprintf("Content generation stopped. Reason: %s", reason), cause)
	e.Response = resp
	return e
}

// NewRequestTimeoutError creates a RequestTimeout error.
func NewRequestTimeoutError(msg string, cause error) *Error {
	return newError(RequestTimeout, msg, cause)
}

// NewInvalidLocationError creates an InvalidLocation error for the given location.
func NewInvalidLocationError(location string, cause error) *Error {
	return newError(InvalidLocation, fmt.Sprintf("Invalid location %q", location), cause)
}

// NewServiceDisabledError creates a ServiceDisabled error.
func NewServiceDisabledError(msg string, cause error) *Error {
	return newError(ServiceDisabled, msg, cause)
}

// NewUnknownError creates an Unknown error.
func NewUnknownError(msg string, cause error) *Error {
	return newError(Unknown, msg, cause)
}

// Normalize converts any error into an *Error.
//
// Errors that already are (or wrap) an *Error are returned unchanged. Errors raised by the
// transport layer are mapped to the code of the same name. A context deadline becomes a
// RequestTimeout error, and everything else an Unknown error. Normalize returns nil for a nil
// error.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var ce *common.Error
	if errors.As(err, &ce) {
		return fromCommonError(ce)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewRequestTimeoutError(requestTimeoutMessage, err)
	}
	return NewUnknownError(unknownMessage, err)
}

func fromCommonError(ce *common.Error) *Error {
	cause := ce.Unwrap()
	switch ce.Code {
	case common.Serialization:
		return NewSerializationError(ce.Message, cause)
	case common.Server:
		return NewServerError(ce.Message, cause)
	case common.InvalidAPIKey:
		return NewInvalidAPIKeyError(ce.Message, cause)
	case common.PromptBlocked:
		return NewPromptBlockedError(fromCommonResponse(ce.Response), cause)
	case common.UnsupportedUserLocation:
		return NewUnsupportedUserLocationError(cause)
	case common.InvalidState:
		return NewInvalidStateError(ce.Message, ce)
	case common.ResponseStopped:
		return NewResponseStoppedError(fromCommonResponse(ce.Response), cause)
	case common.RequestTimeout:
		return NewRequestTimeoutError(ce.Message, cause)
	case common.ServiceDisabled:
		return NewServiceDisabledError(ce.Message, cause)
	case common.Unknown:
		return NewUnknownError(ce.Message, cause)
	default:
		return NewUnknownError(ce.Message, ce)
	}
}

// HasErrorCode checks if the given error chain contains an *Error with the specified code.
func HasErrorCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsSerialization checks if the given error is a Serialization error.
func IsSerialization(err error) bool {
	return HasErrorCode(err, Serialization)
}

// IsServer checks if the given error is a Server error.
func IsServer(err error) bool {
	return HasErrorCode(err, Server)
}

// IsInvalidAPIKey checks if the given error is an InvalidAPIKey error.
func IsInvalidAPIKey(err error) bool {
	return HasErrorCode(err, InvalidAPIKey)
}

// IsPromptBlocked checks if the given error is a PromptBlocked error.
func IsPromptBlocked(err error) bool {
	return HasErrorCode(err, PromptBlocked)
}

// IsUnsupportedUserLocation checks if the given error is an UnsupportedUserLocation error.
func IsUnsupportedUserLocation(err error) bool {
	return HasErrorCode(err, UnsupportedUserLocation)
}

// IsInvalidState checks if the given error is an InvalidState error.
func IsInvalidState(err error) bool {
	return HasErrorCode(err, InvalidState)
}

// IsResponseStopped checks if the given error is a ResponseStopped error.
func IsResponseStopped(err error) bool {
	return HasErrorCode(err, ResponseStopped)
}

// IsRequestTimeout checks if the given error is a RequestTimeout error.
func IsRequestTimeout(err error) bool {
	return HasErrorCode(err, RequestTimeout)
}

// IsInvalidLocation checks if the given error is an InvalidLocation error.
func IsInvalidLocation(err error) bool {
	return HasErrorCode(err, InvalidLocation)
}

// IsServiceDisabled checks if the given error is a ServiceDisabled error.
func IsServiceDisabled(err error) bool {
	return HasErrorCode(err, ServiceDisabled)
}

// IsUnknown checks if the given error is an Unknown error.
func IsUnknown(err error) bool {
	return HasErrorCode(err, Unknown)
}
