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
	"errors"
	"strings"
	"sync"
)

// ErrNoCandidates is returned by the GenerateContentResponse projections when the response has no
// candidates.
var ErrNoCandidates = errors.New("response has no candidates")

// GenerateContentResponse is the response of a content generation request.
//
// A GenerateContentResponse must not be copied or modified after it was returned.
type GenerateContentResponse struct {
	Candidates     []*Candidate
	PromptFeedback *PromptFeedback
	UsageMetadata  *UsageMetadata

	textOnce sync.Once
	text     string
	textErr  error

	callsOnce sync.Once
	calls     []*FunctionCallPart
	callsErr  error
}

// Text returns the text parts of the first candidate, joined by single spaces.
//
// The result is computed on first use and cached.
func (r *GenerateContentResponse) Text() (string, error) {
	r.textOnce.Do(func() {
		content, err := r.firstContent()
		if err != nil {
			r.textErr = err
			return
		}

		var texts []string
		for _, p := range content.Parts {
			switch tp := p.(type) {
			case TextPart:
				texts = append(texts, tp.Text)
			case *TextPart:
				texts = append(texts, tp.Text)
			}
		}
		r.text = strings.Join(texts, " ")
	})
	return r.text, r.textErr
}

// FunctionCalls returns the function calls of the first candidate, in order.
//
// The result is computed on first use and cached.
func (r *GenerateContentResponse) FunctionCalls() ([]*FunctionCallPart, error) {
	r.callsOnce.Do(func() {
		content, err := r.firstContent()
		if err != nil {
			r.callsErr = err
			return
		}

		r.calls = []*FunctionCallPart{}
		for _, p := range content.Parts {
			switch fc := p.(type) {
			case FunctionCallPart:
				r.calls = append(r.calls, &fc)
			case *FunctionCallPart:
				r.calls = append(r.calls, fc)
			}
		}
	})
	return r.calls, r.callsErr
}

func (r *GenerateContentResponse) firstContent() (*Content, error) {
	if len(r.Candidates) == 0 || r.Candidates[0] == nil {
		return nil, ErrNoCandidates
	}
	if r.Candidates[0].Content == nil {
		return &Content{}, nil
	}
	return r.Candidates[0].Content, nil
}
