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
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/auth/oauth2adapt"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"firebase.google.com/go/vertexai/internal"
	"firebase.google.com/go/vertexai/internal/common"
	"firebase.google.com/go/vertexai/platforminfo"
)

const apiClientHeader = "X-Goog-Api-Client"

// Client is the interface for the Vertex AI in Firebase service.
type Client struct {
	backend  common.Backend
	location string
	logger   logrus.FieldLogger
	metrics  *metrics
}

// NewClient creates a new instance of the Vertex AI in Firebase client.
//
// This function can only be invoked from within the SDK. Client applications should access the
// Vertex AI service through firebase.App.
func NewClient(ctx context.Context, conf *internal.VertexAIConfig) (*Client, error) {
	if err := validateLocation(conf.Location); err != nil {
		return nil, err
	}

	cc := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{
			Headers: http.Header{apiClientHeader: []string{platforminfo.UserAgent()}},
		},
	}
	if conf.APIKey != "" {
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = conf.APIKey
	} else {
		if conf.ProjectID == "" {
			return nil, NewInvalidStateError(
				"project ID is required to access Vertex AI; set ProjectID in firebase.Config or "+
					"the GOOGLE_CLOUD_PROJECT environment variable", nil)
		}
		cc.Backend = genai.BackendVertexAI
		cc.Project = conf.ProjectID
		cc.Location = conf.Location
		if conf.Creds != nil {
			cc.Credentials = oauth2adapt.AuthCredentialsFromOauth2Credentials(conf.Creds)
		}
		cc.HTTPClient = conf.HTTPClient
	}

	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	m, err := newMetrics(conf.MetricsRegisterer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	logger := conf.FieldLogger()
	return newClient(common.NewGenAIBackend(gc, logger), conf.Location, logger, m), nil
}

func newClient(backend common.Backend, location string, logger logrus.FieldLogger, m *metrics) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		backend:  backend,
		location: location,
		logger:   logger,
		metrics:  m,
	}
}

// Location returns the Vertex AI location the client sends requests to.
func (c *Client) Location() string {
	return c.location
}

// GenerativeModel creates a GenerativeModel for the named model, such as "gemini-2.0-flash".
func (c *Client) GenerativeModel(name string, opts ...ModelOption) *GenerativeModel {
	m := &GenerativeModel{
		name:    name,
		backend: c.backend,
		logger:  c.logger.WithField("model", name),
		metrics: c.metrics,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func validateLocation(location string) error {
	if strings.TrimSpace(location) == "" || strings.Contains(location, "/") {
		return NewInvalidLocationError(location, nil)
	}
	return nil
}
