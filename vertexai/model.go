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
	"iter"

	"github.com/sirupsen/logrus"

	"firebase.google.com/go/vertexai/internal/common"
)

const (
	methodGenerateContent       = "generateContent"
	methodStreamGenerateContent = "streamGenerateContent"
	methodCountTokens           = "countTokens"
	methodSendMessage           = "sendMessage"
)

// ModelOption configures a GenerativeModel.
type ModelOption func(*GenerativeModel)

// WithGenerationConfig sets the generation parameters used by every request of the model.
func WithGenerationConfig(config *GenerationConfig) ModelOption {
	return func(m *GenerativeModel) {
		m.generationConfig = config
	}
}

// WithSafetySettings sets the safety thresholds used by every request of the model.
func WithSafetySettings(settings ...*SafetySetting) ModelOption {
	return func(m *GenerativeModel) {
		m.safetySettings = settings
	}
}

// WithTools sets the tools the model may call.
func WithTools(tools ...*Tool) ModelOption {
	return func(m *GenerativeModel) {
		m.tools = tools
	}
}

// WithSystemInstruction sets the system instruction of the model.
func WithSystemInstruction(instruction *Content) ModelOption {
	return func(m *GenerativeModel) {
		m.systemInstruction = instruction
	}
}

// WithRequestOptions sets how requests of the model are sent.
func WithRequestOptions(opts RequestOptions) ModelOption {
	return func(m *GenerativeModel) {
		m.requestOptions = opts
	}
}

// GenerativeModel generates content with one of the Gemini models.
//
// A GenerativeModel is safe for concurrent use.
type GenerativeModel struct {
	name    string
	backend common.Backend
	logger  logrus.FieldLogger
	metrics *metrics

	generationConfig  *GenerationConfig
	safetySettings    []*SafetySetting
	tools             []*Tool
	systemInstruction *Content
	requestOptions    RequestOptions
}

// Name returns the name of the model.
func (m *GenerativeModel) Name() string {
	return m.name
}

// GenerateContent generates a response to a user prompt made of the given parts.
func (m *GenerativeModel) GenerateContent(ctx context.Context, parts ...Part) (*GenerateContentResponse, error) {
	return m.GenerateContentFromContents(ctx, NewUserContent(parts...))
}

// GenerateContentFromContents generates a response to the given conversation.
func (m *GenerativeModel) GenerateContentFromContents(
	ctx context.Context, contents ...*Content) (*GenerateContentResponse, error) {
	m.metrics.request(methodGenerateContent)
	return m.generateContent(ctx, methodGenerateContent, contents)
}

// generateContent sends contents. The caller counts the request under method.
func (m *GenerativeModel) generateContent(
	ctx context.Context, method string, contents []*Content) (*GenerateContentResponse, error) {
	req, err := m.newRequest(contents)
	if err != nil {
		return nil, m.fail(method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.requestOptions.timeout())
	defer cancel()

	resp, err := m.backend.GenerateContent(ctx, req)
	if err != nil {
		return nil, m.fail(method, err)
	}
	return fromCommonResponse(resp), nil
}

// GenerateContentStream generates a response to a user prompt made of the given parts, and
// returns the response in chunks as the model produces them.
//
// Iteration stops after the first error. The request timeout covers the whole iteration.
func (m *GenerativeModel) GenerateContentStream(
	ctx context.Context, parts ...Part) iter.Seq2[*GenerateContentResponse, error] {
	return m.GenerateContentStreamFromContents(ctx, NewUserContent(parts...))
}

// GenerateContentStreamFromContents is like GenerateContentStream, but sends the given
// conversation.
func (m *GenerativeModel) GenerateContentStreamFromContents(
	ctx context.Context, contents ...*Content) iter.Seq2[*GenerateContentResponse, error] {
	return func(yield func(*GenerateContentResponse, error) bool) {
		m.metrics.request(methodStreamGenerateContent)
		req, err := m.newRequest(contents)
		if err != nil {
			yield(nil, m.fail(methodStreamGenerateContent, err))
			return
		}

		ctx, cancel := context.WithTimeout(ctx, m.requestOptions.timeout())
		defer cancel()

		for resp, err := range m.backend.GenerateContentStream(ctx, req) {
			if err != nil {
				yield(nil, m.fail(methodStreamGenerateContent, err))
				return
			}
			if !yield(fromCommonResponse(resp), nil) {
				return
			}
		}
	}
}

// CountTokens counts the tokens of a user prompt made of the given parts.
func (m *GenerativeModel) CountTokens(ctx context.Context, parts ...Part) (*CountTokensResponse, error) {
	m.metrics.request(methodCountTokens)
	req, err := m.newRequest([]*Content{NewUserContent(parts...)})
	if err != nil {
		return nil, m.fail(methodCountTokens, err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.requestOptions.timeout())
	defer cancel()

	resp, err := m.backend.CountTokens(ctx, req)
	if err != nil {
		return nil, m.fail(methodCountTokens, err)
	}
	return fromCommonCountTokens(resp), nil
}

func (m *GenerativeModel) newRequest(contents []*Content) (*common.GenerateContentRequest, error) {
	if m.generationConfig != nil {
		if err := m.generationConfig.Validate(); err != nil {
			return nil, err
		}
	}
	return &common.GenerateContentRequest{
		Model:             m.name,
		Contents:          toCommonContents(contents),
		GenerationConfig:  toCommonGenerationConfig(m.generationConfig),
		SafetySettings:    toCommonSafetySettings(m.safetySettings),
		Tools:             toCommonTools(m.tools),
		SystemInstruction: toCommonContent(m.systemInstruction),
	}, nil
}

// fail normalizes err, and records it in the logs and metrics.
func (m *GenerativeModel) fail(method string, err error) *Error {
	e := Normalize(err)
	m.metrics.failure(method, e.Code)
	m.logger.WithFields(logrus.Fields{
		"method": method,
		"code":   e.Code,
	}).WithError(e).Debug("Request failed")
	return e
}
