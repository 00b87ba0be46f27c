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
	"time"
)

// DefaultTimeout is the time a request may take when RequestOptions does not set one.
const DefaultTimeout = 180 * time.Second

// RequestOptions configures how requests are sent to the backend.
type RequestOptions struct {
	// Timeout bounds the duration of each request, streamed responses included. Defaults to
	// DefaultTimeout when zero.
	Timeout time.Duration
}

func (o RequestOptions) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// GenerationConfig controls how the model generates content. Nil and zero fields are left to the
// backend defaults.
type GenerationConfig struct {
	Temperature      *float32 `validate:"omitempty,gte=0,lte=2"`
	TopP             *float32 `validate:"omitempty,gte=0,lte=1"`
	TopK             *float32 `validate:"omitempty,gte=1"`
	CandidateCount   int      `validate:"gte=0,lte=8"`
	MaxOutputTokens  int      `validate:"gte=0"`
	StopSequences    []string `validate:"max=5"`
	PresencePenalty  *float32 `validate:"omitempty,gte=-2,lte=2"`
	FrequencyPenalty *float32 `validate:"omitempty,gte=-2,lte=2"`

	// ResponseMIMEType is the MIME type of the generated text. ResponseSchema requires
	// application/json or text/x.enum.
	ResponseMIMEType string  `validate:"omitempty,oneof=text/plain application/json text/x.enum"`
	ResponseSchema   *Schema `validate:"omitempty"`
}

// Validate checks that every field of the configuration is within range.
func (c *GenerationConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return NewInvalidStateError("invalid generation config: "+err.Error(), err)
	}
	if c.ResponseSchema != nil && c.ResponseMIMEType != "application/json" && c.ResponseMIMEType != "text/x.enum" {
		return NewInvalidStateError(
			"invalid generation config: ResponseSchema requires ResponseMIMEType application/json or text/x.enum", nil)
	}
	return nil
}

// SafetySetting sets the blocking threshold of one harm category.
type SafetySetting struct {
	Category  HarmCategory
	Threshold HarmBlockThreshold
	Method    HarmBlockMethod
}

// HarmBlockThreshold is the probability above which content is blocked.
type HarmBlockThreshold string

const (
	HarmBlockThresholdLowAndAbove    HarmBlockThreshold = "BLOCK_LOW_AND_ABOVE"
	HarmBlockThresholdMediumAndAbove HarmBlockThreshold = "BLOCK_MEDIUM_AND_ABOVE"
	HarmBlockThresholdOnlyHigh       HarmBlockThreshold = "BLOCK_ONLY_HIGH"
	HarmBlockThresholdNone           HarmBlockThreshold = "BLOCK_NONE"
	HarmBlockThresholdOff            HarmBlockThreshold = "OFF"
)

// HarmBlockMethod selects whether the threshold applies to the probability or the severity score.
type HarmBlockMethod string

const (
	HarmBlockMethodSeverity    HarmBlockMethod = "SEVERITY"
	HarmBlockMethodProbability HarmBlockMethod = "PROBABILITY"
)

// Tool lists functions the model may call.
type Tool struct {
	FunctionDeclarations []*FunctionDeclaration
}

// FunctionDeclaration describes a function the model may call.
type FunctionDeclaration struct {
	Name        string
	Description string
	Parameters  *Schema
}

// SchemaType is the type of a Schema.
type SchemaType string

const (
	TypeString  SchemaType = "STRING"
	TypeNumber  SchemaType = "NUMBER"
	TypeInteger SchemaType = "INTEGER"
	TypeBoolean SchemaType = "BOOLEAN"
	TypeArray   SchemaType = "ARRAY"
	TypeObject  SchemaType = "OBJECT"
)

// Schema describes the structure of function parameters or of a JSON response.
type Schema struct {
	Type        SchemaType
	Format      string
	Description string
	Nullable    bool
	Enum        []string
	Items       *Schema
	Properties  map[string]*Schema
	Required    []string
}
