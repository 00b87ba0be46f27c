// Copyright 2017 Google Inc. All Rights Reserved.
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

// Package internal contains functionality that is only accessible from within the Firebase SDK.
package internal

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// VertexAIConfig represents the configuration of the Vertex AI in Firebase service.
type VertexAIConfig struct {
	Creds     *google.Credentials
	ProjectID string
	Location  string
	APIKey    string

	// HTTPClient carries the requests sent to the Vertex AI backend. It is not used with an
	// APIKey.
	HTTPClient *http.Client

	// Logger receives request logs. Defaults to the logrus standard logger when nil.
	Logger logrus.FieldLogger

	// MetricsRegisterer receives the request and error counters. Metrics are not exported when
	// nil.
	MetricsRegisterer prometheus.Registerer
}

// FieldLogger returns the configured logger, or the logrus standard logger.
func (c *VertexAIConfig) FieldLogger() logrus.FieldLogger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

// MockTokenSource is a TokenSource implementation that can be used for testing.
type MockTokenSource struct {
	AccessToken string
}

// Token returns the test token associated with the TokenSource.
func (ts *MockTokenSource) Token() (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: ts.AccessToken}, nil
}
