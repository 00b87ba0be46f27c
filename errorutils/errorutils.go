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

// Package errorutils provides functions for checking the errors returned by the Vertex AI in
// Firebase client.
package errorutils // import "firebase.google.com/go/vertexai/errorutils"

import (
	"errors"

	"firebase.google.com/go/vertexai/vertexai"
)

func IsSerialization(err error) bool {
	return vertexai.IsSerialization(err)
}

func IsServer(err error) bool {
	return vertexai.IsServer(err)
}

func IsInvalidAPIKey(err error) bool {
	return vertexai.IsInvalidAPIKey(err)
}

func IsPromptBlocked(err error) bool {
	return vertexai.IsPromptBlocked(err)
}

func IsUnsupportedUserLocation(err error) bool {
	return vertexai.IsUnsupportedUserLocation(err)
}

func IsInvalidState(err error) bool {
	return vertexai.IsInvalidState(err)
}

func IsResponseStopped(err error) bool {
	return vertexai.IsResponseStopped(err)
}

func IsRequestTimeout(err error) bool {
	return vertexai.IsRequestTimeout(err)
}

func IsInvalidLocation(err error) bool {
	return vertexai.IsInvalidLocation(err)
}

func IsServiceDisabled(err error) bool {
	return vertexai.IsServiceDisabled(err)
}

func IsUnknown(err error) bool {
	return vertexai.IsUnknown(err)
}

// Code returns the error code of err, or an empty code if err is not a Vertex AI error.
func Code(err error) vertexai.ErrorCode {
	var e *vertexai.Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ErrorResponse returns the response attached to a PromptBlocked or ResponseStopped error, and
// nil for any other error.
func ErrorResponse(err error) *vertexai.GenerateContentResponse {
	var e *vertexai.Error
	if errors.As(err, &e) {
		return e.Response
	}
	return nil
}
