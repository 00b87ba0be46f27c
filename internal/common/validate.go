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
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks that a request can be sent to the backend.
func ValidateRequest(req *GenerateContentRequest) error {
	if req == nil {
		return NewError(InvalidState, "request must not be nil", nil)
	}
	if req.Model == "" {
		return NewError(InvalidState, "model name must not be empty", nil)
	}
	if len(req.Contents) == 0 {
		return NewError(InvalidState, "request must contain at least one content", nil)
	}
	return nil
}

// ValidateResponse checks a decoded response for the conditions the backend reports in-band.
//
// A response with neither candidates nor prompt feedback is a Serialization error. A prompt
// block reason is reported as PromptBlocked, and a candidate that did not finish with STOP as
// ResponseStopped. Both carry the response. Citations must satisfy
// 0 <= StartIndex <= EndIndex.
func ValidateResponse(resp *GenerateContentResponse) error {
	if resp == nil || (len(resp.Candidates) == 0 && resp.PromptFeedback == nil) {
		return NewError(Serialization, "Error deserializing response, found no valid fields", nil)
	}

	if pf := resp.PromptFeedback; pf != nil && pf.BlockReason != "" {
		e := NewError(PromptBlocked, fmt.Sprintf("Prompt was blocked: %s", pf.BlockReason), nil)
		e.Response = resp
		return e
	}

	for _, c := range resp.Candidates {
		if c == nil {
			continue
		}
		if c.FinishReason != "" && c.FinishReason != FinishReasonStop {
			e := NewError(ResponseStopped,
				fmt.Sprintf("Content generation stopped. Reason: %s", c.FinishReason), nil)
			e.Response = resp
			return e
		}
		if c.CitationMetadata == nil {
			continue
		}
		for _, cite := range c.CitationMetadata.Citations {
			if cite == nil {
				continue
			}
			if err := validate.Struct(cite); err != nil {
				return NewError(Serialization,
					fmt.Sprintf("invalid citation [%d, %d)", cite.StartIndex, cite.EndIndex), err)
			}
		}
	}
	return nil
}
