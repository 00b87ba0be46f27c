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
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"firebase.google.com/go/vertexai/internal/common"
)

const testModelName = "gemini-2.0-flash"

// fakeBackend is a common.Backend that returns canned responses.
type fakeBackend struct {
	mu       sync.Mutex
	requests []*common.GenerateContentRequest

	resp      *common.GenerateContentResponse
	chunks    []*common.GenerateContentResponse
	countResp *common.CountTokensResponse
	err       error

	// waitForDeadline makes every call block until its context is done.
	waitForDeadline bool

	// started and release, when set, let a test hold a GenerateContent call in flight.
	started chan struct{}
	release chan struct{}
}

func (b *fakeBackend) record(req *common.GenerateContentRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)
}

func (b *fakeBackend) recorded() []*common.GenerateContentRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*common.GenerateContentRequest(nil), b.requests...)
}

func (b *fakeBackend) GenerateContent(
	ctx context.Context, req *common.GenerateContentRequest) (*common.GenerateContentResponse, error) {
	b.record(req)
	if b.started != nil {
		b.started <- struct{}{}
		<-b.release
	}
	if b.waitForDeadline {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if b.err != nil {
		return nil, b.err
	}
	return b.resp, nil
}

func (b *fakeBackend) GenerateContentStream(
	ctx context.Context, req *common.GenerateContentRequest) iter.Seq2[*common.GenerateContentResponse, error] {
	return func(yield func(*common.GenerateContentResponse, error) bool) {
		b.record(req)
		for _, c := range b.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if b.waitForDeadline {
			<-ctx.Done()
			yield(nil, ctx.Err())
			return
		}
		if b.err != nil {
			yield(nil, b.err)
		}
	}
}

func (b *fakeBackend) CountTokens(
	ctx context.Context, req *common.GenerateContentRequest) (*common.CountTokensResponse, error) {
	b.record(req)
	if b.err != nil {
		return nil, b.err
	}
	return b.countResp, nil
}

func textResponse(texts ...string) *common.GenerateContentResponse {
	content := &common.Content{Role: "model"}
	for _, t := range texts {
		content.Parts = append(content.Parts, &common.Part{Text: t})
	}
	return &common.GenerateContentResponse{
		Candidates: []*common.Candidate{{Content: content, FinishReason: "STOP"}},
	}
}

type testEnv struct {
	backend  *fakeBackend
	client   *Client
	hook     *test.Hook
	registry *prometheus.Registry
	metrics  *metrics
}

func newTestEnv(backend *fakeBackend) *testEnv {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	registry := prometheus.NewRegistry()
	m, err := newMetrics(registry)
	if err != nil {
		panic(err)
	}
	return &testEnv{
		backend:  backend,
		client:   newClient(backend, "us-central1", logger, m),
		hook:     hook,
		registry: registry,
		metrics:  m,
	}
}
