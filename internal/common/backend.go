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
	"iter"
)

// Backend sends requests to a generative model service.
//
// Implementations report failures as *Error values, except for an expired context, which is
// returned as is.
type Backend interface {
	GenerateContent(ctx context.Context, req *GenerateContentRequest) (*GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, req *GenerateContentRequest) iter.Seq2[*GenerateContentResponse, error]
	CountTokens(ctx context.Context, req *GenerateContentRequest) (*CountTokensResponse, error)
}
