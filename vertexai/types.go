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
	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Roles of the participants of a conversation.
const (
	RoleUser     = "user"
	RoleModel    = "model"
	RoleFunction = "function"
)

// Content is a multi-part message from a single role.
type Content struct {
	Role  string
	Parts []Part
}

// NewUserContent creates a Content of the user role.
func NewUserContent(parts ...Part) *Content {
	return &Content{Role: RoleUser, Parts: parts}
}

// NewModelContent creates a Content of the model role.
func NewModelContent(parts ...Part) *Content {
	return &Content{Role: RoleModel, Parts: parts}
}

// Part is a single piece of a Content.
//
// Part is implemented by TextPart, InlineDataPart, FileDataPart, FunctionCallPart and
// FunctionResponsePart only.
type Part interface {
	isPart()
}

// TextPart is a piece of text.
type TextPart struct {
	Text string
}

// InlineDataPart is binary data sent inline, such as an image.
type InlineDataPart struct {
	MIMEType string
	Data     []byte
}

// FileDataPart references a file stored in Cloud Storage for Firebase.
type FileDataPart struct {
	MIMEType string
	URI      string
}

// FunctionCallPart is a function call requested by the model.
type FunctionCallPart struct {
	ID   string
	Name string
	Args map[string]interface{}
}

// FunctionResponsePart is the result of a FunctionCallPart, sent back to the model.
type FunctionResponsePart struct {
	ID       string
	Name     string
	Response map[string]interface{}
}

func (TextPart) isPart()             {}
func (InlineDataPart) isPart()       {}
func (FileDataPart) isPart()         {}
func (FunctionCallPart) isPart()     {}
func (FunctionResponsePart) isPart() {}

// Candidate is one of the responses generated by the model.
type Candidate struct {
	Index            int
	Content          *Content
	SafetyRatings    []*SafetyRating
	CitationMetadata *CitationMetadata
	FinishReason     FinishReason
}

// FinishReason is the reason the model stopped generating a candidate. The empty FinishReason
// means the backend did not report one.
type FinishReason string

const (
	FinishReasonUnknown    FinishReason = "UNKNOWN"
	FinishReasonStop       FinishReason = "STOP"
	FinishReasonMaxTokens  FinishReason = "MAX_TOKENS"
	FinishReasonSafety     FinishReason = "SAFETY"
	FinishReasonRecitation FinishReason = "RECITATION"
	FinishReasonOther      FinishReason = "OTHER"
)

// SafetyRating is the safety assessment of a prompt or candidate for one harm category.
type SafetyRating struct {
	Category         HarmCategory
	Probability      HarmProbability
	ProbabilityScore *float32
	Blocked          *bool
	Severity         HarmSeverity
	SeverityScore    *float32
}

// CitationMetadata lists the sources cited by a candidate.
type CitationMetadata struct {
	Citations []*Citation
}

// Citation attributes the range [StartIndex, EndIndex) of a candidate's text to a source.
type Citation struct {
	Title           string
	StartIndex      int `validate:"gte=0"`
	EndIndex        int `validate:"gtefield=StartIndex"`
	URI             string
	License         string
	PublicationDate *civil.Date
}

// Validate checks that 0 <= StartIndex <= EndIndex.
func (c *Citation) Validate() error {
	return validate.Struct(c)
}

// PromptFeedback reports why a prompt was blocked.
type PromptFeedback struct {
	BlockReason        BlockReason
	BlockReasonMessage string
	SafetyRatings      []*SafetyRating
}

// BlockReason is the reason a prompt was blocked.
type BlockReason string

const (
	BlockReasonUnknown           BlockReason = "UNKNOWN"
	BlockReasonUnspecified       BlockReason = "BLOCKED_REASON_UNSPECIFIED"
	BlockReasonSafety            BlockReason = "SAFETY"
	BlockReasonOther             BlockReason = "OTHER"
	BlockReasonBlocklist         BlockReason = "BLOCKLIST"
	BlockReasonProhibitedContent BlockReason = "PROHIBITED_CONTENT"
)

// HarmCategory is a category of harmful content.
type HarmCategory string

const (
	HarmCategoryUnknown          HarmCategory = "UNKNOWN"
	HarmCategoryHarassment       HarmCategory = "HARM_CATEGORY_HARASSMENT"
	HarmCategoryHateSpeech       HarmCategory = "HARM_CATEGORY_HATE_SPEECH"
	HarmCategorySexuallyExplicit HarmCategory = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	HarmCategoryDangerousContent HarmCategory = "HARM_CATEGORY_DANGEROUS_CONTENT"
	HarmCategoryCivicIntegrity   HarmCategory = "HARM_CATEGORY_CIVIC_INTEGRITY"
)

// HarmProbability is the likelihood that content is harmful.
type HarmProbability string

const (
	HarmProbabilityUnknown     HarmProbability = "UNKNOWN"
	HarmProbabilityUnspecified HarmProbability = "HARM_PROBABILITY_UNSPECIFIED"
	HarmProbabilityNegligible  HarmProbability = "NEGLIGIBLE"
	HarmProbabilityLow         HarmProbability = "LOW"
	HarmProbabilityMedium      HarmProbability = "MEDIUM"
	HarmProbabilityHigh        HarmProbability = "HIGH"
)

// HarmSeverity is the magnitude of the harm content could cause.
type HarmSeverity string

const (
	HarmSeverityUnknown     HarmSeverity = "UNKNOWN"
	HarmSeverityUnspecified HarmSeverity = "HARM_SEVERITY_UNSPECIFIED"
	HarmSeverityNegligible  HarmSeverity = "HARM_SEVERITY_NEGLIGIBLE"
	HarmSeverityLow         HarmSeverity = "HARM_SEVERITY_LOW"
	HarmSeverityMedium      HarmSeverity = "HARM_SEVERITY_MEDIUM"
	HarmSeverityHigh        HarmSeverity = "HARM_SEVERITY_HIGH"
)

// UsageMetadata reports the token usage of a request.
type UsageMetadata struct {
	PromptTokenCount     int
	CandidatesTokenCount int
	TotalTokenCount      int
}

// CountTokensResponse is the result of GenerativeModel.CountTokens.
type CountTokensResponse struct {
	TotalTokens             int
	TotalBillableCharacters int
}
