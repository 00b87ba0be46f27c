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

	"firebase.google.com/go/vertexai/internal/common"
	"firebase.google.com/go/vertexai/ptr"
)

func toCommonContent(c *Content) *common.Content {
	if c == nil {
		return nil
	}
	result := &common.Content{Role: c.Role}
	for _, p := range c.Parts {
		if cp := toCommonPart(p); cp != nil {
			result.Parts = append(result.Parts, cp)
		}
	}
	return result
}

func toCommonContents(contents []*Content) []*common.Content {
	var result []*common.Content
	for _, c := range contents {
		if c != nil {
			result = append(result, toCommonContent(c))
		}
	}
	return result
}

func toCommonPart(p Part) *common.Part {
	switch v := p.(type) {
	case TextPart:
		return &common.Part{Text: v.Text}
	case *TextPart:
		return &common.Part{Text: v.Text}
	case InlineDataPart:
		return &common.Part{InlineData: &common.Blob{MIMEType: v.MIMEType, Data: v.Data}}
	case *InlineDataPart:
		return &common.Part{InlineData: &common.Blob{MIMEType: v.MIMEType, Data: v.Data}}
	case FileDataPart:
		return &common.Part{FileData: &common.FileData{MIMEType: v.MIMEType, FileURI: v.URI}}
	case *FileDataPart:
		return &common.Part{FileData: &common.FileData{MIMEType: v.MIMEType, FileURI: v.URI}}
	case FunctionCallPart:
		return &common.Part{FunctionCall: &common.FunctionCall{ID: v.ID, Name: v.Name, Args: v.Args}}
	case *FunctionCallPart:
		return &common.Part{FunctionCall: &common.FunctionCall{ID: v.ID, Name: v.Name, Args: v.Args}}
	case FunctionResponsePart:
		return &common.Part{FunctionResponse: &common.FunctionResponse{
			ID: v.ID, Name: v.Name, Response: v.Response,
		}}
	case *FunctionResponsePart:
		return &common.Part{FunctionResponse: &common.FunctionResponse{
			ID: v.ID, Name: v.Name, Response: v.Response,
		}}
	default:
		return nil
	}
}

func toCommonGenerationConfig(c *GenerationConfig) *common.GenerationConfig {
	if c == nil {
		return nil
	}
	return &common.GenerationConfig{
		Temperature:      c.Temperature,
		TopP:             c.TopP,
		TopK:             c.TopK,
		CandidateCount:   int32(c.CandidateCount),
		MaxOutputTokens:  int32(c.MaxOutputTokens),
		StopSequences:    c.StopSequences,
		PresencePenalty:  c.PresencePenalty,
		FrequencyPenalty: c.FrequencyPenalty,
		ResponseMIMEType: c.ResponseMIMEType,
		ResponseSchema:   toCommonSchema(c.ResponseSchema),
	}
}

func toCommonSafetySettings(settings []*SafetySetting) []*common.SafetySetting {
	var result []*common.SafetySetting
	for _, s := range settings {
		if s == nil {
			continue
		}
		result = append(result, &common.SafetySetting{
			Category:  string(s.Category),
			Threshold: string(s.Threshold),
			Method:    string(s.Method),
		})
	}
	return result
}

func toCommonTools(tools []*Tool) []*common.Tool {
	var result []*common.Tool
	for _, t := range tools {
		if t == nil {
			continue
		}
		ct := &common.Tool{}
		for _, fd := range t.FunctionDeclarations {
			if fd == nil {
				continue
			}
			ct.FunctionDeclarations = append(ct.FunctionDeclarations, &common.FunctionDeclaration{
				Name:        fd.Name,
				Description: fd.Description,
				Parameters:  toCommonSchema(fd.Parameters),
			})
		}
		result = append(result, ct)
	}
	return result
}

func toCommonSchema(s *Schema) *common.Schema {
	if s == nil {
		return nil
	}
	result := &common.Schema{
		Type:        string(s.Type),
		Format:      s.Format,
		Description: s.Description,
		Enum:        s.Enum,
		Items:       toCommonSchema(s.Items),
		Required:    s.Required,
	}
	if s.Nullable {
		result.Nullable = ptr.Bool(true)
	}
	if len(s.Properties) > 0 {
		result.Properties = make(map[string]*common.Schema, len(s.Properties))
		for k, v := range s.Properties {
			result.Properties[k] = toCommonSchema(v)
		}
	}
	return result
}

func fromCommonResponse(resp *common.GenerateContentResponse) *GenerateContentResponse {
	if resp == nil {
		return nil
	}
	result := &GenerateContentResponse{}
	for _, c := range resp.Candidates {
		if c != nil {
			result.Candidates = append(result.Candidates, fromCommonCandidate(c))
		}
	}
	if pf := resp.PromptFeedback; pf != nil {
		result.PromptFeedback = &PromptFeedback{
			BlockReason:        parseBlockReason(pf.BlockReason),
			BlockReasonMessage: pf.BlockReasonMessage,
			SafetyRatings:      fromCommonSafetyRatings(pf.SafetyRatings),
		}
	}
	if um := resp.UsageMetadata; um != nil {
		result.UsageMetadata = &UsageMetadata{
			PromptTokenCount:     um.PromptTokenCount,
			CandidatesTokenCount: um.CandidatesTokenCount,
			TotalTokenCount:      um.TotalTokenCount,
		}
	}
	return result
}

func fromCommonCandidate(c *common.Candidate) *Candidate {
	result := &Candidate{
		Index:         c.Index,
		Content:       fromCommonContent(c.Content),
		SafetyRatings: fromCommonSafetyRatings(c.SafetyRatings),
		FinishReason:  parseFinishReason(c.FinishReason),
	}
	if cm := c.CitationMetadata; cm != nil {
		result.CitationMetadata = &CitationMetadata{}
		for _, cite := range cm.Citations {
			if cite != nil {
				result.CitationMetadata.Citations = append(result.CitationMetadata.Citations,
					fromCommonCitation(cite))
			}
		}
	}
	return result
}

func fromCommonCitation(c *common.Citation) *Citation {
	result := &Citation{
		Title:      c.Title,
		StartIndex: c.StartIndex,
		EndIndex:   c.EndIndex,
		URI:        c.URI,
		License:    c.License,
	}
	if c.PublicationDate != nil && !c.PublicationDate.IsZero() {
		result.PublicationDate = ptr.Of[civil.Date](c.PublicationDate.Civil())
	}
	return result
}

func fromCommonContent(c *common.Content) *Content {
	if c == nil {
		return nil
	}
	result := &Content{Role: c.Role}
	for _, p := range c.Parts {
		if part := fromCommonPart(p); part != nil {
			result.Parts = append(result.Parts, part)
		}
	}
	return result
}

func fromCommonPart(p *common.Part) Part {
	switch {
	case p == nil:
		return nil
	case p.FunctionCall != nil:
		return FunctionCallPart{ID: p.FunctionCall.ID, Name: p.FunctionCall.Name, Args: p.FunctionCall.Args}
	case p.FunctionResponse != nil:
		return FunctionResponsePart{
			ID:       p.FunctionResponse.ID,
			Name:     p.FunctionResponse.Name,
			Response: p.FunctionResponse.Response,
		}
	case p.InlineData != nil:
		return InlineDataPart{MIMEType: p.InlineData.MIMEType, Data: p.InlineData.Data}
	case p.FileData != nil:
		return FileDataPart{MIMEType: p.FileData.MIMEType, URI: p.FileData.FileURI}
	case p.Text != "":
		return TextPart{Text: p.Text}
	default:
		// Part kinds without a Part type here, such as executable code, decode to an empty Part.
		return nil
	}
}

func fromCommonSafetyRatings(ratings []*common.SafetyRating) []*SafetyRating {
	var result []*SafetyRating
	for _, r := range ratings {
		if r == nil {
			continue
		}
		result = append(result, &SafetyRating{
			Category:         parseHarmCategory(r.Category),
			Probability:      parseHarmProbability(r.Probability),
			ProbabilityScore: r.ProbabilityScore,
			Blocked:          r.Blocked,
			Severity:         parseHarmSeverity(r.Severity),
			SeverityScore:    r.SeverityScore,
		})
	}
	return result
}

func fromCommonCountTokens(resp *common.CountTokensResponse) *CountTokensResponse {
	return &CountTokensResponse{
		TotalTokens:             resp.TotalTokens,
		TotalBillableCharacters: resp.TotalBillableCharacters,
	}
}

// parseEnum maps a wire value onto one of the known values. The empty string stays empty, and an
// unrecognized value becomes unknown.
func parseEnum[T ~string](v string, unknown T, known ...T) T {
	if v == "" {
		return ""
	}
	for _, k := range known {
		if string(k) == v {
			return k
		}
	}
	return unknown
}

func parseFinishReason(v string) FinishReason {
	return parseEnum(v, FinishReasonUnknown,
		FinishReasonStop, FinishReasonMaxTokens, FinishReasonSafety, FinishReasonRecitation,
		FinishReasonOther)
}

func parseBlockReason(v string) BlockReason {
	return parseEnum(v, BlockReasonUnknown,
		BlockReasonUnspecified, BlockReasonSafety, BlockReasonOther, BlockReasonBlocklist,
		BlockReasonProhibitedContent)
}

func parseHarmCategory(v string) HarmCategory {
	return parseEnum(v, HarmCategoryUnknown,
		HarmCategoryHarassment, HarmCategoryHateSpeech, HarmCategorySexuallyExplicit,
		HarmCategoryDangerousContent, HarmCategoryCivicIntegrity)
}

func parseHarmProbability(v string) HarmProbability {
	return parseEnum(v, HarmProbabilityUnknown,
		HarmProbabilityUnspecified, HarmProbabilityNegligible, HarmProbabilityLow,
		HarmProbabilityMedium, HarmProbabilityHigh)
}

func parseHarmSeverity(v string) HarmSeverity {
	return parseEnum(v, HarmSeverityUnknown,
		HarmSeverityUnspecified, HarmSeverityNegligible, HarmSeverityLow, HarmSeverityMedium,
		HarmSeverityHigh)
}
