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
	"errors"
	"testing"
)

func TestValidateRequest(t *testing.T) {
	contents := []*Content{{Role: "user", Parts: []*Part{{Text: "hi"}}}}
	cases := []struct {
		name string
		req  *GenerateContentRequest
	}{
		{"nil", nil},
		{"no model", &GenerateContentRequest{Contents: contents}},
		{"no contents", &GenerateContentRequest{Model: "gemini-2.0-flash"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateRequest(tc.req); !HasErrorCode(err, InvalidState) {
				t.Errorf("ValidateRequest() = %v; want = InvalidState", err)
			}
		})
	}

	ok := &GenerateContentRequest{Model: "gemini-2.0-flash", Contents: contents}
	if err := ValidateRequest(ok); err != nil {
		t.Errorf("ValidateRequest() = %v; want = nil", err)
	}
}

func TestValidateResponse(t *testing.T) {
	text := &Content{Role: "model", Parts: []*Part{{Text: "hello"}}}
	cases := []struct {
		name    string
		resp    *GenerateContentResponse
		code    ErrorCode
		message string
	}{
		{
			name:    "empty",
			resp:    &GenerateContentResponse{},
			code:    Serialization,
			message: "Error deserializing response, found no valid fields",
		},
		{
			name:    "usage only",
			resp:    &GenerateContentResponse{UsageMetadata: &UsageMetadata{TotalTokenCount: 3}},
			code:    Serialization,
			message: "Error deserializing response, found no valid fields",
		},
		{
			name: "blocked",
			resp: &GenerateContentResponse{
				PromptFeedback: &PromptFeedback{BlockReason: "SAFETY"},
			},
			code:    PromptBlocked,
			message: "Prompt was blocked: SAFETY",
		},
		{
			name: "stopped",
			resp: &GenerateContentResponse{
				Candidates: []*Candidate{{Content: text, FinishReason: "MAX_TOKENS"}},
			},
			code:    ResponseStopped,
			message: "Content generation stopped. Reason: MAX_TOKENS",
		},
		{
			name: "invalid citation",
			resp: &GenerateContentResponse{
				Candidates: []*Candidate{{
					Content:      text,
					FinishReason: "STOP",
					CitationMetadata: &CitationMetadata{
						Citations: []*Citation{{StartIndex: 5, EndIndex: 2}},
					},
				}},
			},
			code:    Serialization,
			message: "invalid citation [5, 2)",
		},
		{
			name: "negative citation",
			resp: &GenerateContentResponse{
				Candidates: []*Candidate{{
					Content: text,
					CitationMetadata: &CitationMetadata{
						Citations: []*Citation{{StartIndex: -1, EndIndex: 2}},
					},
				}},
			},
			code:    Serialization,
			message: "invalid citation [-1, 2)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateResponse(tc.resp)
			var ce *Error
			if !errors.As(err, &ce) {
				t.Fatalf("ValidateResponse() = %v; want = *Error", err)
			}
			if ce.Code != tc.code {
				t.Errorf("Code = %q; want = %q", ce.Code, tc.code)
			}
			if ce.Message != tc.message {
				t.Errorf("Message = %q; want = %q", ce.Message, tc.message)
			}
			if tc.code == PromptBlocked || tc.code == ResponseStopped {
				if ce.Response != tc.resp {
					t.Errorf("Response = %v; want = %v", ce.Response, tc.resp)
				}
			} else if ce.Response != nil {
				t.Errorf("Response = %v; want = nil", ce.Response)
			}
		})
	}
}

func TestValidateResponseValid(t *testing.T) {
	cases := []*GenerateContentResponse{
		{
			Candidates: []*Candidate{{
				Content:      &Content{Parts: []*Part{{Text: "hello"}}},
				FinishReason: "STOP",
				CitationMetadata: &CitationMetadata{
					Citations: []*Citation{{StartIndex: 0, EndIndex: 0}, {StartIndex: 1, EndIndex: 4}},
				},
			}},
		},
		{
			Candidates: []*Candidate{{Content: &Content{Parts: []*Part{{Text: "partial"}}}}},
		},
		{
			PromptFeedback: &PromptFeedback{},
		},
	}
	for i, resp := range cases {
		if err := ValidateResponse(resp); err != nil {
			t.Errorf("[%d] ValidateResponse() = %v; want = nil", i, err)
		}
	}
}
