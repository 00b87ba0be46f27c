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
	"iter"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// GenAIBackend is a Backend that sends requests through the Google Gen AI SDK.
type GenAIBackend struct {
	client *genai.Client
	logger logrus.FieldLogger
}

// NewGenAIBackend creates a new GenAIBackend from the given client.
func NewGenAIBackend(client *genai.Client, logger logrus.FieldLogger) *GenAIBackend {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &GenAIBackend{
		client: client,
		logger: logger,
	}
}

// GenerateContent sends a single generateContent request.
func (b *GenAIBackend) GenerateContent(
	ctx context.Context, req *GenerateContentRequest) (*GenerateContentResponse, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	contents, config, err := toGenAIRequest(req)
	if err != nil {
		return nil, From(err)
	}

	log := b.requestLogger("generateContent", req)
	log.Debug("Sending request")
	resp, err := b.generate(ctx, req.Model, contents, config)
	if err != nil {
		err = classify(err)
		log.WithError(err).Debug("Request failed")
		return nil, err
	}

	result, err := fromGenAIResponse(resp)
	if err != nil {
		log.WithError(err).Warn("Failed to decode response")
		return nil, err
	}
	return result, nil
}

// GenerateContentStream sends a streaming generateContent request. Iteration stops after the
// first error.
func (b *GenAIBackend) GenerateContentStream(
	ctx context.Context, req *GenerateContentRequest) iter.Seq2[*GenerateContentResponse, error] {
	return func(yield func(*GenerateContentResponse, error) bool) {
		if err := ValidateRequest(req); err != nil {
			yield(nil, err)
			return
		}

		contents, config, err := toGenAIRequest(req)
		if err != nil {
			yield(nil, From(err))
			return
		}

		log := b.requestLogger("streamGenerateContent", req)
		log.Debug("Sending request")
		next, stop := iter.Pull2(b.client.Models.GenerateContentStream(ctx, req.Model, contents, config))
		defer stop()

		chunks := 0
		for {
			resp, ok, err := pullChunk(next)
			if !ok {
				break
			}
			if err != nil {
				err = classify(err)
				log.WithError(err).WithField("chunks", chunks).Debug("Stream failed")
				yield(nil, err)
				return
			}

			result, err := fromGenAIResponse(resp)
			if err != nil {
				log.WithError(err).WithField("chunks", chunks).Warn("Failed to decode response chunk")
				yield(nil, err)
				return
			}
			chunks++
			if !yield(result, nil) {
				return
			}
		}
		log.WithField("chunks", chunks).Debug("Stream completed")
	}
}

// CountTokens sends a countTokens request.
func (b *GenAIBackend) CountTokens(
	ctx context.Context, req *GenerateContentRequest) (*CountTokensResponse, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	var contents []*genai.Content
	if err := convert(req.Contents, &contents); err != nil {
		return nil, From(err)
	}

	log := b.requestLogger("countTokens", req)
	log.Debug("Sending request")
	resp, err := b.countTokens(ctx, req.Model, contents)
	if err != nil {
		err = classify(err)
		log.WithError(err).Debug("Request failed")
		return nil, err
	}

	var result CountTokensResponse
	if err := convert(resp, &result); err != nil {
		return nil, From(err)
	}
	return &result, nil
}

func (b *GenAIBackend) generate(ctx context.Context, model string, contents []*genai.Content,
	config *genai.GenerateContentConfig) (resp *genai.GenerateContentResponse, err error) {
	defer recoverDecodePanic(&err)
	return b.client.Models.GenerateContent(ctx, model, contents, config)
}

func (b *GenAIBackend) countTokens(
	ctx context.Context, model string, contents []*genai.Content) (resp *genai.CountTokensResponse, err error) {
	defer recoverDecodePanic(&err)
	return b.client.Models.CountTokens(ctx, model, contents, nil)
}

// pullChunk returns the next stream chunk. ok is false once the stream is exhausted.
func pullChunk(
	next func() (*genai.GenerateContentResponse, error, bool)) (resp *genai.GenerateContentResponse, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, ok, err = nil, true, decodePanicError(r)
		}
	}()
	resp, err, ok = next()
	return resp, ok, err
}

// recoverDecodePanic turns a panic raised by genai while it decodes a response of the wrong
// shape into a Serialization error.
func recoverDecodePanic(err *error) {
	if r := recover(); r != nil {
		*err = decodePanicError(r)
	}
}

func decodePanicError(r interface{}) error {
	return NewError(Serialization, deserializationMessage, fmt.Errorf("decoding response: %v", r))
}

func (b *GenAIBackend) requestLogger(method string, req *GenerateContentRequest) logrus.FieldLogger {
	return b.logger.WithFields(logrus.Fields{
		"method":   method,
		"model":    req.Model,
		"contents": len(req.Contents),
	})
}

// generationSettings holds the request fields that genai carries in GenerateContentConfig next to
// the GenerationConfig fields.
type generationSettings struct {
	SafetySettings    []*SafetySetting `json:"safetySettings,omitempty"`
	Tools             []*Tool          `json:"tools,omitempty"`
	SystemInstruction *Content         `json:"systemInstruction,omitempty"`
}

func toGenAIRequest(req *GenerateContentRequest) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	var contents []*genai.Content
	if err := convert(req.Contents, &contents); err != nil {
		return nil, nil, err
	}

	config := &genai.GenerateContentConfig{}
	if req.GenerationConfig != nil {
		if err := convert(req.GenerationConfig, config); err != nil {
			return nil, nil, err
		}
	}

	settings := &generationSettings{
		SafetySettings:    req.SafetySettings,
		Tools:             req.Tools,
		SystemInstruction: req.SystemInstruction,
	}
	if err := convert(settings, config); err != nil {
		return nil, nil, err
	}
	return contents, config, nil
}

func fromGenAIResponse(resp *genai.GenerateContentResponse) (*GenerateContentResponse, error) {
	var result GenerateContentResponse
	if err := convert(resp, &result); err != nil {
		return nil, From(err)
	}
	assignFunctionCallIDs(&result)
	if err := ValidateResponse(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// assignFunctionCallIDs gives every function call without an ID a random one, so that function
// responses can always be matched with their calls.
func assignFunctionCallIDs(resp *GenerateContentResponse) {
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p != nil && p.FunctionCall != nil && p.FunctionCall.ID == "" {
				p.FunctionCall.ID = uuid.NewString()
			}
		}
	}
}

// convert copies src into dst through their JSON representations, which the wire model shares
// with the genai types.
func convert(src, dst interface{}) error {
	b, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// genaiAPIError mirrors the JSON form of genai.APIError.
type genaiAPIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
	Details []struct {
		Reason string `json:"reason"`
	} `json:"details"`
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyAPIError(apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return classifyAPIError(*apiErrPtr, err)
	}
	return From(err)
}

func classifyAPIError(apiErr genai.APIError, cause error) error {
	var details genaiAPIError
	if err := convert(apiErr, &details); err != nil {
		return ClassifyServerError(apiErr.Message, nil, cause)
	}

	var reasons []string
	for _, d := range details.Details {
		if d.Reason != "" {
			reasons = append(reasons, d.Reason)
		}
	}
	return ClassifyServerError(details.Message, reasons, cause)
}
