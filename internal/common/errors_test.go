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
	"net"
	"testing"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func TestFrom(t *testing.T) {
	var syntaxErr error
	if err := json.Unmarshal([]byte("{not json"), &struct{}{}); err != nil {
		syntaxErr = err
	}
	var typeErr error
	if err := json.Unmarshal([]byte(`{"totalTokens": "ten"}`), &CountTokensResponse{}); err != nil {
		typeErr = err
	}

	cases := []struct {
		name    string
		err     error
		code    ErrorCode
		message string
	}{
		{
			name:    "syntax",
			err:     syntaxErr,
			code:    Serialization,
			message: deserializationMessage,
		},
		{
			name:    "type",
			err:     fmt.Errorf("decode: %w", typeErr),
			code:    Serialization,
			message: deserializationMessage,
		},
		{
			name:    "net timeout",
			err:     fmt.Errorf("send: %w", timeoutError{}),
			code:    RequestTimeout,
			message: "The request timed out: i/o timeout",
		},
		{
			name:    "other",
			err:     errors.New("boom"),
			code:    Unknown,
			message: unknownMessage,
		},
		{
			name:    "canceled",
			err:     context.Canceled,
			code:    Unknown,
			message: unknownMessage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err == nil {
				t.Fatal("test error not initialized")
			}
			err := From(tc.err)
			var ce *Error
			if !errors.As(err, &ce) {
				t.Fatalf("From() = %T; want = *Error", err)
			}
			if ce.Code != tc.code {
				t.Errorf("Code = %q; want = %q", ce.Code, tc.code)
			}
			if ce.Message != tc.message {
				t.Errorf("Message = %q; want = %q", ce.Message, tc.message)
			}
			if !errors.Is(err, tc.err) {
				t.Errorf("errors.Is(From(), cause) = false; want = true")
			}
		})
	}
}

func TestFromPassThrough(t *testing.T) {
	if err := From(nil); err != nil {
		t.Errorf("From(nil) = %v; want = nil", err)
	}

	ce := NewError(Server, "server error", nil)
	if err := From(fmt.Errorf("wrapped: %w", ce)); err != ce {
		t.Errorf("From(wrapped *Error) = %v; want = %v", err, ce)
	}

	deadline := fmt.Errorf("send: %w", context.DeadlineExceeded)
	if err := From(deadline); err != deadline {
		t.Errorf("From(deadline) = %v; want = %v", err, deadline)
	}
}

func TestClassifyServerError(t *testing.T) {
	cause := errors.New("api error")
	cases := []struct {
		name    string
		message string
		reasons []string
		want    ErrorCode
	}{
		{
			name:    "api key",
			message: "API key not valid. Please pass a valid API key.",
			want:    InvalidAPIKey,
		},
		{
			name:    "user location",
			message: "User location is not supported for the API use.",
			want:    UnsupportedUserLocation,
		},
		{
			name:    "user location prefix only",
			message: "User location is not supported for the API use. Extra.",
			want:    Server,
		},
		{
			name:    "quota",
			message: "Resource exhausted: quota exceeded for model",
			want:    QuotaExceeded,
		},
		{
			name:    "service disabled",
			message: "Vertex AI in Firebase API has not been used in project 123",
			reasons: []string{"OTHER", "SERVICE_DISABLED"},
			want:    ServiceDisabled,
		},
		{
			name:    "api key wins over reasons",
			message: "API key not valid.",
			reasons: []string{"SERVICE_DISABLED"},
			want:    InvalidAPIKey,
		},
		{
			name:    "server",
			message: "Internal error encountered.",
			want:    Server,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyServerError(tc.message, tc.reasons, cause)
			if got.Code != tc.want {
				t.Errorf("Code = %q; want = %q", got.Code, tc.want)
			}
			if got.Message != tc.message {
				t.Errorf("Message = %q; want = %q", got.Message, tc.message)
			}
			if got.Unwrap() != cause {
				t.Errorf("Unwrap() = %v; want = %v", got.Unwrap(), cause)
			}
		})
	}
}

func TestHasErrorCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewError(QuotaExceeded, "quota", nil))
	if !HasErrorCode(err, QuotaExceeded) {
		t.Errorf("HasErrorCode(QuotaExceeded) = false; want = true")
	}
	if HasErrorCode(err, Server) {
		t.Errorf("HasErrorCode(Server) = true; want = false")
	}
	if HasErrorCode(errors.New("plain"), Unknown) {
		t.Errorf("HasErrorCode(plain) = true; want = false")
	}
}
