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

// Package common contains the wire model, error classification and transport adapter shared by
// the Vertex AI in Firebase client.
package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// FinishReasonStop is the only finish reason that represents a successful completion.
const FinishReasonStop = "STOP"

// GenerateContentRequest is a request sent to the generateContent and countTokens endpoints.
type GenerateContentRequest struct {
	Model             string            `json:"model"`
	Contents          []*Content        `json:"contents"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
	SafetySettings    []*SafetySetting  `json:"safetySettings,omitempty"`
	Tools             []*Tool           `json:"tools,omitempty"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
}

// Content is a multi-part message from a single role.
type Content struct {
	Role  string  `json:"role,omitempty"`
	Parts []*Part `json:"parts,omitempty"`
}

// Part is a single piece of a Content. Exactly one of its fields is set.
type Part struct {
	Text             string            `json:"text,omitempty"`
	InlineData       *Blob             `json:"inlineData,omitempty"`
	FileData         *FileData         `json:"fileData,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

// Blob holds inline bytes. Data is base64 encoded on the wire.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// FileData references a file stored in Cloud Storage.
type FileData struct {
	MIMEType string `json:"mimeType"`
	FileURI  string `json:"fileUri"`
}

// FunctionCall is a function invocation predicted by the model.
type FunctionCall struct {
	ID   string                 `json:"id,omitempty"`
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args,omitempty"`
}

// FunctionResponse carries the result of a FunctionCall back to the model.
type FunctionResponse struct {
	ID       string                 `json:"id,omitempty"`
	Name     string                 `json:"name"`
	Response map[string]interface{} `json:"response"`
}

// GenerationConfig controls how the model generates content.
type GenerationConfig struct {
	Temperature      *float32 `json:"temperature,omitempty"`
	TopP             *float32 `json:"topP,omitempty"`
	TopK             *float32 `json:"topK,omitempty"`
	CandidateCount   int32    `json:"candidateCount,omitempty"`
	MaxOutputTokens  int32    `json:"maxOutputTokens,omitempty"`
	StopSequences    []string `json:"stopSequences,omitempty"`
	PresencePenalty  *float32 `json:"presencePenalty,omitempty"`
	FrequencyPenalty *float32 `json:"frequencyPenalty,omitempty"`
	ResponseMIMEType string   `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema  `json:"responseSchema,omitempty"`
}

// SafetySetting sets the blocking threshold of a single harm category.
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
	Method    string `json:"method,omitempty"`
}

// Tool lists the functions the model may call.
type Tool struct {
	FunctionDeclarations []*FunctionDeclaration `json:"functionDeclarations,omitempty"`
}

// FunctionDeclaration describes a function the model may call.
type FunctionDeclaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Schema is the OpenAPI subset accepted by the backend.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Format      string             `json:"format,omitempty"`
	Description string             `json:"description,omitempty"`
	Nullable    *bool              `json:"nullable,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// GenerateContentResponse is the response of the generateContent endpoint, or a single chunk of
// a streamed response.
type GenerateContentResponse struct {
	Candidates     []*Candidate    `json:"candidates,omitempty"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *UsageMetadata  `json:"usageMetadata,omitempty"`
}

// Candidate is a single response candidate.
type Candidate struct {
	Index            int               `json:"index,omitempty"`
	Content          *Content          `json:"content,omitempty"`
	FinishReason     string            `json:"finishReason,omitempty"`
	SafetyRatings    []*SafetyRating   `json:"safetyRatings,omitempty"`
	CitationMetadata *CitationMetadata `json:"citationMetadata,omitempty"`
}

// SafetyRating is the safety assessment of a prompt or candidate for one harm category.
type SafetyRating struct {
	Category         string   `json:"category,omitempty"`
	Probability      string   `json:"probability,omitempty"`
	ProbabilityScore *float32 `json:"probabilityScore,omitempty"`
	Blocked          *bool    `json:"blocked,omitempty"`
	Severity         string   `json:"severity,omitempty"`
	SeverityScore    *float32 `json:"severityScore,omitempty"`
}

// CitationMetadata lists the sources a candidate cites.
type CitationMetadata struct {
	Citations []*Citation `json:"citations,omitempty"`
}

// Citation attributes the range [StartIndex, EndIndex) of a candidate to a source.
type Citation struct {
	StartIndex      int    `json:"startIndex,omitempty" validate:"gte=0"`
	EndIndex        int    `json:"endIndex,omitempty" validate:"gtefield=StartIndex"`
	URI             string `json:"uri,omitempty"`
	Title           string `json:"title,omitempty"`
	License         string `json:"license,omitempty"`
	PublicationDate *Date  `json:"publicationDate,omitempty"`
}

// PromptFeedback describes why a prompt was blocked.
type PromptFeedback struct {
	BlockReason        string          `json:"blockReason,omitempty"`
	BlockReasonMessage string          `json:"blockReasonMessage,omitempty"`
	SafetyRatings      []*SafetyRating `json:"safetyRatings,omitempty"`
}

// UsageMetadata reports the token usage of a request.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount,omitempty"`
	CandidatesTokenCount int `json:"candidatesTokenCount,omitempty"`
	TotalTokenCount      int `json:"totalTokenCount,omitempty"`
}

// CountTokensResponse is the response of the countTokens endpoint.
type CountTokensResponse struct {
	TotalTokens             int `json:"totalTokens"`
	TotalBillableCharacters int `json:"totalBillableCharacters,omitempty"`
}

// Date is a calendar date.
//
// The backend sends dates either as a {year, month, day} object or as a "YYYY-MM-DD" string, and
// Date accepts both. The zero Date means the date is absent.
type Date struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
	Day   int `json:"day,omitempty"`
}

// IsZero reports whether d is absent.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Civil converts d into a civil.Date.
func (d Date) Civil() civil.Date {
	return civil.Date{Year: d.Year, Month: time.Month(d.Month), Day: d.Day}
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" || s == "0000-00-00" {
			*d = Date{}
			return nil
		}
		cd, err := civil.ParseDate(s)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", s, err)
		}
		*d = Date{Year: cd.Year, Month: int(cd.Month), Day: cd.Day}
		return nil
	}

	type date Date
	var v date
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*d = Date(v)
	return nil
}
