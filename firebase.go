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

// Package firebase is the entry point to the Vertex AI in Firebase Go SDK. It provides functionality
// for initializing App instances, which hold the configuration shared by the Vertex AI clients
// created from them.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/transport"

	"firebase.google.com/go/vertexai/components"
	"firebase.google.com/go/vertexai/internal"
	"firebase.google.com/go/vertexai/platforminfo"
	"firebase.google.com/go/vertexai/vertexai"
)

var firebaseScopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/firebase",
	"https://www.googleapis.com/auth/userinfo.email",
}

// Version of the Vertex AI in Firebase Go SDK.
const Version = "1.0.0"

// LibraryName is the name under which the SDK reports its version.
const LibraryName = "fire-vertex-go"

// DefaultLocation is the Vertex AI location used when Config does not set one.
const DefaultLocation = "us-central1"

// firebaseEnvName is the name of the environment variable with the Config.
const firebaseEnvName = "FIREBASE_CONFIG"

const (
	vertexAIInterface = "vertexai.Client"
	tracerName        = "firebase.google.com/go/vertexai"
)

// An App holds configuration and state common to all Vertex AI clients created from it.
type App struct {
	creds          *google.Credentials
	projectID      string
	location       string
	apiKey         string
	opts           []option.ClientOption
	logger         logrus.FieldLogger
	tracerProvider trace.TracerProvider
	metrics        prometheus.Registerer
}

// Config represents the configuration used to initialize an App.
type Config struct {
	ProjectID string `json:"projectId"`
	Location  string `json:"location"`

	// APIKey selects the Gemini Developer API instead of Vertex AI. No Google credentials are
	// needed when it is set.
	APIKey string `json:"apiKey"`

	// Logger receives the SDK logs. Defaults to the logrus standard logger.
	Logger logrus.FieldLogger `json:"-"`

	// TracerProvider, when set, records the initialization of the SDK components as spans.
	TracerProvider trace.TracerProvider `json:"-"`

	// MetricsRegisterer, when set, receives the request and error counters of the SDK.
	MetricsRegisterer prometheus.Registerer `json:"-"`
}

// NewApp creates a new App from the provided config and client options.
//
// When config is nil, NewApp loads it from the JSON file (or JSON string) named by the
// FIREBASE_CONFIG environment variable.
//
// If the client options contain a valid credential (a service account file, a refresh token file or an
// oauth2.TokenSource) the App will be authenticated using that credential. Otherwise, NewApp attempts to
// authenticate the App with Google application default credentials, unless the config sets an APIKey.
func NewApp(ctx context.Context, config *Config, opts ...option.ClientOption) (*App, error) {
	o := []option.ClientOption{option.WithScopes(firebaseScopes...)}
	o = append(o, opts...)
	if config == nil {
		var err error
		if config, err = getConfigDefaults(); err != nil {
			return nil, err
		}
	}

	var creds *google.Credentials
	if config.APIKey == "" {
		var err error
		if creds, err = transport.Creds(ctx, o...); err != nil {
			return nil, err
		}
	}

	pid := config.ProjectID
	if pid == "" && creds != nil {
		pid = creds.ProjectID
	}
	if pid == "" {
		pid = os.Getenv("GOOGLE_CLOUD_PROJECT")
	}
	if pid == "" {
		pid = os.Getenv("GCLOUD_PROJECT")
	}

	location := config.Location
	if location == "" {
		location = DefaultLocation
	}

	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	app := &App{
		creds:          creds,
		projectID:      pid,
		location:       location,
		apiKey:         config.APIKey,
		opts:           o,
		logger:         logger,
		tracerProvider: config.TracerProvider,
		metrics:        config.MetricsRegisterer,
	}
	if err := components.RegisterLibraryVersions(ctx, platforminfo.Default(), app); err != nil {
		return nil, err
	}
	return app, nil
}

// ProjectID returns the Google Cloud project the App is bound to.
func (a *App) ProjectID() string {
	return a.projectID
}

// Location returns the default Vertex AI location of the App.
func (a *App) Location() string {
	return a.location
}

// Components returns the components the SDK registers for this App, bound to its default
// location.
func (a *App) Components() []*components.Component {
	return a.registrar(a.location).Components()
}

// VertexAI returns an instance of vertexai.Client for the given location. An empty location
// selects the default location of the App. The client creation is traced when the App has a
// TracerProvider.
func (a *App) VertexAI(ctx context.Context, location string) (*vertexai.Client, error) {
	if location == "" {
		location = a.location
	}

	var comps []*components.Component
	r := a.registrar(location)
	if a.tracerProvider != nil {
		comps = components.NewMonitoring(a.tracerProvider.Tracer(tracerName)).ProcessRegistrar(ctx, r)
	} else {
		comps = r.Components()
	}

	for _, c := range comps {
		if !c.ProvidesInterface(vertexAIInterface) {
			continue
		}
		v, err := c.Factory(ctx)
		if err != nil {
			return nil, err
		}
		return v.(*vertexai.Client), nil
	}
	return nil, errors.New("no Vertex AI component is registered")
}

func (a *App) registrar(location string) components.Registrar {
	return components.RegistrarFunc(func() []*components.Component {
		return []*components.Component{
			{
				Provides: []string{vertexAIInterface},
				Factory: func(ctx context.Context) (interface{}, error) {
					return a.newVertexAI(ctx, location)
				},
			},
			components.LibraryVersionComponent(LibraryName, Version),
		}
	})
}

func (a *App) newVertexAI(ctx context.Context, location string) (*vertexai.Client, error) {
	conf := &internal.VertexAIConfig{
		Creds:             a.creds,
		ProjectID:         a.projectID,
		Location:          location,
		APIKey:            a.apiKey,
		Logger:            a.logger,
		MetricsRegisterer: a.metrics,
	}
	if a.apiKey == "" {
		hc, _, err := transport.NewHTTPClient(ctx, a.opts...)
		if err != nil {
			return nil, err
		}
		conf.HTTPClient = hc
	}
	return vertexai.NewClient(ctx, conf)
}

// getConfigDefaults reads the default config file, defined by the FIREBASE_CONFIG
// env variable, used only when options are nil.
func getConfigDefaults() (*Config, error) {
	fbc := &Config{}
	confFileName := os.Getenv(firebaseEnvName)
	if confFileName == "" {
		return fbc, nil
	}

	var dat []byte
	if strings.HasPrefix(strings.TrimSpace(confFileName), "{") {
		dat = []byte(confFileName)
	} else {
		var err error
		if dat, err = os.ReadFile(confFileName); err != nil {
			return nil, err
		}
	}

	d := json.NewDecoder(bytes.NewReader(dat))
	d.DisallowUnknownFields()
	if err := d.Decode(fbc); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", firebaseEnvName, err)
	}
	return fbc, nil
}
