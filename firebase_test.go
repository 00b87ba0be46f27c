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

package firebase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"google.golang.org/api/option"

	"firebase.google.com/go/vertexai/errorutils"
	"firebase.google.com/go/vertexai/internal"
	"firebase.google.com/go/vertexai/platforminfo"
	"firebase.google.com/go/vertexai/vertexai"
)

var testOpts = []option.ClientOption{
	option.WithTokenSource(&internal.MockTokenSource{AccessToken: "mock-token"}),
}

func TestMain(m *testing.M) {
	// Isolate the tests from any configuration present in the environment.
	for _, name := range []string{firebaseEnvName, "GOOGLE_CLOUD_PROJECT", "GCLOUD_PROJECT"} {
		os.Unsetenv(name)
	}
	os.Exit(m.Run())
}

func TestTokenSource(t *testing.T) {
	app, err := NewApp(context.Background(), &Config{ProjectID: "mock-project-id"}, testOpts...)
	if err != nil {
		t.Fatal(err)
	}

	if app.projectID != "mock-project-id" {
		t.Errorf("Project ID: %q; want: %q", app.projectID, "mock-project-id")
	}
	if app.location != DefaultLocation {
		t.Errorf("Location: %q; want: %q", app.location, DefaultLocation)
	}
	if len(app.opts) != 2 {
		t.Errorf("Client opts: %d; want: 2", len(app.opts))
	}
	if app.creds == nil {
		t.Fatal("Credentials: nil; want: non-nil")
	}
	tok, err := app.creds.TokenSource.Token()
	if err != nil {
		t.Fatal(err)
	}
	if tok.AccessToken != "mock-token" {
		t.Errorf("AccessToken: %q; want: %q", tok.AccessToken, "mock-token")
	}
}

func TestAPIKeyWithoutCredentials(t *testing.T) {
	app, err := NewApp(context.Background(), &Config{ProjectID: "mock-project-id", APIKey: "mock-api-key"})
	if err != nil {
		t.Fatal(err)
	}
	if app.creds != nil {
		t.Errorf("Credentials: %v; want: nil", app.creds)
	}

	client, err := app.VertexAI(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if client.Location() != DefaultLocation {
		t.Errorf("Location(): %q; want: %q", client.Location(), DefaultLocation)
	}
}

func TestProjectIDFallback(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		config *Config
		want   string
	}{
		{
			name:   "config",
			env:    map[string]string{"GOOGLE_CLOUD_PROJECT": "env-project"},
			config: &Config{ProjectID: "config-project"},
			want:   "config-project",
		},
		{
			name:   "GOOGLE_CLOUD_PROJECT",
			env:    map[string]string{"GOOGLE_CLOUD_PROJECT": "env-project", "GCLOUD_PROJECT": "legacy-project"},
			config: &Config{},
			want:   "env-project",
		},
		{
			name:   "GCLOUD_PROJECT",
			env:    map[string]string{"GCLOUD_PROJECT": "legacy-project"},
			config: &Config{},
			want:   "legacy-project",
		},
		{
			name:   "none",
			config: &Config{},
			want:   "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("GOOGLE_CLOUD_PROJECT", "")
			t.Setenv("GCLOUD_PROJECT", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			app, err := NewApp(context.Background(), tc.config, testOpts...)
			if err != nil {
				t.Fatal(err)
			}
			if app.ProjectID() != tc.want {
				t.Errorf("ProjectID() = %q; want = %q", app.ProjectID(), tc.want)
			}
		})
	}
}

func TestVertexAI(t *testing.T) {
	app, err := NewApp(context.Background(), &Config{ProjectID: "mock-project-id", Location: "asia-northeast1"}, testOpts...)
	if err != nil {
		t.Fatal(err)
	}

	client, err := app.VertexAI(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if client.Location() != "asia-northeast1" {
		t.Errorf("Location(): %q; want: %q", client.Location(), "asia-northeast1")
	}

	client, err = app.VertexAI(context.Background(), "europe-west1")
	if err != nil {
		t.Fatal(err)
	}
	if client.Location() != "europe-west1" {
		t.Errorf("Location(): %q; want: %q", client.Location(), "europe-west1")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestVertexAIClientOptions(t *testing.T) {
	var requests []*http.Request
	hc := &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			requests = append(requests, r)
			body := `{"candidates": [{"content": {"role": "model", "parts": [{"text": "Hello"}]},
				"finishReason": "STOP"}]}`
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       io.NopCloser(strings.NewReader(body)),
				Request:    r,
			}, nil
		}),
	}
	opts := append([]option.ClientOption{option.WithHTTPClient(hc)}, testOpts...)
	app, err := NewApp(context.Background(), &Config{ProjectID: "mock-project-id", Location: "asia-northeast1"}, opts...)
	if err != nil {
		t.Fatal(err)
	}

	client, err := app.VertexAI(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.GenerativeModel("gemini-2.0-flash").GenerateContent(
		context.Background(), vertexai.TextPart{Text: "Hi"})
	if err != nil {
		t.Fatal(err)
	}
	if text, _ := resp.Text(); text != "Hello" {
		t.Errorf("Text() = %q; want = %q", text, "Hello")
	}

	if len(requests) != 1 {
		t.Fatalf("requests = %d; want = 1", len(requests))
	}
	if host := requests[0].URL.Host; host != "asia-northeast1-aiplatform.googleapis.com" {
		t.Errorf("Host = %q; want = %q", host, "asia-northeast1-aiplatform.googleapis.com")
	}
	wantPath := "/projects/mock-project-id/locations/asia-northeast1/"
	if path := requests[0].URL.Path; !strings.Contains(path, wantPath) {
		t.Errorf("Path = %q; want to contain %q", path, wantPath)
	}
}

func TestVertexAIInvalidLocation(t *testing.T) {
	app, err := NewApp(context.Background(), &Config{ProjectID: "mock-project-id"}, testOpts...)
	if err != nil {
		t.Fatal(err)
	}

	client, err := app.VertexAI(context.Background(), "us-central1/publishers")
	if client != nil || !errorutils.IsInvalidLocation(err) {
		t.Errorf("VertexAI() = (%v, %v); want = (nil, InvalidLocation)", client, err)
	}
}

func TestVertexAINoProject(t *testing.T) {
	app, err := NewApp(context.Background(), &Config{}, testOpts...)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := app.VertexAI(context.Background(), ""); !errorutils.IsInvalidState(err) {
		t.Errorf("VertexAI() = %v; want = InvalidState", err)
	}
}

func TestLibraryVersionRegistered(t *testing.T) {
	if _, err := NewApp(context.Background(), &Config{APIKey: "mock-api-key"}); err != nil {
		t.Fatal(err)
	}

	want := LibraryName + "/" + Version
	if ua := platforminfo.UserAgent(); !strings.Contains(ua, want) {
		t.Errorf("UserAgent() = %q; want to contain %q", ua, want)
	}

	// A second App registers the same version again.
	if _, err := NewApp(context.Background(), &Config{APIKey: "mock-api-key"}); err != nil {
		t.Errorf("NewApp() = %v; want = nil", err)
	}
}

func TestComponents(t *testing.T) {
	app, err := NewApp(context.Background(), &Config{APIKey: "mock-api-key"})
	if err != nil {
		t.Fatal(err)
	}

	comps := app.Components()
	if len(comps) != 2 {
		t.Fatalf("Components() = %d; want = 2", len(comps))
	}
	if !comps[0].ProvidesInterface(vertexAIInterface) {
		t.Errorf("Components()[0].Provides = %v; want = [%s]", comps[0].Provides, vertexAIInterface)
	}
	v, err := comps[1].Factory(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := platforminfo.LibraryVersion{Name: LibraryName, Version: Version}
	if v != want {
		t.Errorf("Components()[1] = %v; want = %v", v, want)
	}
}

func TestVertexAITraced(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	app, err := NewApp(context.Background(), &Config{APIKey: "mock-api-key", TracerProvider: tp})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := app.VertexAI(context.Background(), ""); err != nil {
		t.Fatal(err)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d; want = 1", len(spans))
	}
	if spans[0].Name() != LibraryName {
		t.Errorf("span name = %q; want = %q", spans[0].Name(), LibraryName)
	}
	var version string
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "version" {
			version = kv.Value.AsString()
		}
	}
	if version != Version {
		t.Errorf("version attribute = %q; want = %q", version, Version)
	}
}

func TestMetricsRegisterer(t *testing.T) {
	registry := prometheus.NewRegistry()
	app, err := NewApp(context.Background(), &Config{APIKey: "mock-api-key", MetricsRegisterer: registry})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if _, err := app.VertexAI(context.Background(), ""); err != nil {
			t.Fatalf("VertexAI() = %v; want = nil", err)
		}
	}
}

func TestLogger(t *testing.T) {
	logger, _ := test.NewNullLogger()
	app, err := NewApp(context.Background(), &Config{APIKey: "mock-api-key", Logger: logger})
	if err != nil {
		t.Fatal(err)
	}
	if app.logger != logger {
		t.Errorf("logger = %v; want = %v", app.logger, logger)
	}
}

func TestVersion(t *testing.T) {
	segments := strings.Split(Version, ".")
	if len(segments) != 3 {
		t.Errorf("Incorrect number of segments: %d; want: 3", len(segments))
	}
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err != nil {
			t.Errorf("Invalid segment in version number: %q; want integer", segment)
		}
	}
}

func TestAutoInit(t *testing.T) {
	tests := []struct {
		name          string
		optionsConfig string
		initOptions   *Config
		wantOptions   *Config
	}{
		{
			"<env=nil,opts=nil>",
			"",
			nil,
			&Config{Location: DefaultLocation},
		},
		{
			"<env=file,opts=nil>",
			"testdata/firebase_config.json",
			nil,
			&Config{
				ProjectID: "auto-init-project-id",
				Location:  "europe-west4",
				APIKey:    "auto-init-api-key",
			},
		},
		{
			"<env=string,opts=nil>",
			`{
				"projectId": "auto-init-project-id",
				"location": "europe-west4",
				"apiKey": "auto-init-api-key"
			}`,
			nil,
			&Config{
				ProjectID: "auto-init-project-id",
				Location:  "europe-west4",
				APIKey:    "auto-init-api-key",
			},
		},
		{
			"<env=file_missing_fields,opts=nil>",
			"testdata/firebase_config_partial.json",
			nil,
			&Config{ProjectID: "auto-init-project-id", Location: DefaultLocation},
		},
		{
			"<env=file,opts=non-empty>",
			"testdata/firebase_config.json",
			&Config{Location: "us-east4"},
			&Config{Location: "us-east4"},
		},
		{
			"<env=string,opts=empty>",
			`{"projectId": "auto-init-project-id"}`,
			&Config{},
			&Config{Location: DefaultLocation},
		},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("NewApp(%s)", test.name), func(t *testing.T) {
			t.Setenv(firebaseEnvName, test.optionsConfig)
			app, err := NewApp(context.Background(), test.initOptions, testOpts...)
			if err != nil {
				t.Error(err)
			} else {
				compareConfig(app, test.wantOptions, t)
			}
		})
	}
}

func TestAutoInitInvalidFiles(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		wantError string
	}{
		{
			"NonexistingFile",
			"testdata/no_such_file.json",
			"open testdata/no_such_file.json: no such file or directory",
		},
		{
			"InvalidJSON",
			"testdata/firebase_config_invalid.json",
			"invalid FIREBASE_CONFIG: invalid character 'b' looking for beginning of value",
		},
		{
			"EmptyFile",
			"testdata/firebase_config_empty.json",
			"invalid FIREBASE_CONFIG: EOF",
		},
		{
			"UnknownKey",
			"testdata/firebase_config_invalid_key.json",
			`invalid FIREBASE_CONFIG: json: unknown field "storageBucket"`,
		},
		{
			"UnknownKeyString",
			`{"logger": "stdout"}`,
			`invalid FIREBASE_CONFIG: json: unknown field "logger"`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv(firebaseEnvName, test.filename)
			_, err := NewApp(context.Background(), nil, testOpts...)
			if err == nil || err.Error() != test.wantError {
				t.Errorf("%s got error = %v; want = %s", test.name, err, test.wantError)
			}
		})
	}
}

func compareConfig(got *App, want *Config, t *testing.T) {
	if got.projectID != want.ProjectID {
		t.Errorf("app.projectID = %q; want = %q", got.projectID, want.ProjectID)
	}
	if got.location != want.Location {
		t.Errorf("app.location = %q; want = %q", got.location, want.Location)
	}
	if got.apiKey != want.APIKey {
		t.Errorf("app.apiKey = %q; want = %q", got.apiKey, want.APIKey)
	}
}
