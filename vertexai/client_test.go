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
	"testing"

	"golang.org/x/oauth2/google"

	"firebase.google.com/go/vertexai/internal"
)

func TestNewClientInvalidLocation(t *testing.T) {
	for _, location := range []string{"", "   ", "us-central1/models", "/"} {
		conf := &internal.VertexAIConfig{
			ProjectID: "test-project",
			Location:  location,
			APIKey:    "test-api-key",
		}
		client, err := NewClient(context.Background(), conf)
		if client != nil || !IsInvalidLocation(err) {
			t.Errorf("NewClient(%q) = (%v, %v); want = (nil, InvalidLocation)", location, client, err)
			continue
		}
		if want := `Invalid location "` + location + `"`; err.Error() != want {
			t.Errorf("Error() = %q; want = %q", err.Error(), want)
		}
	}
}

func TestNewClientAPIKey(t *testing.T) {
	conf := &internal.VertexAIConfig{
		Location: "us-central1",
		APIKey:   "test-api-key",
	}
	client, err := NewClient(context.Background(), conf)
	if err != nil {
		t.Fatal(err)
	}
	if client.Location() != "us-central1" {
		t.Errorf("Location() = %q; want = %q", client.Location(), "us-central1")
	}
	if m := client.GenerativeModel(testModelName); m.Name() != testModelName {
		t.Errorf("Name() = %q; want = %q", m.Name(), testModelName)
	}
}

func TestNewClientVertex(t *testing.T) {
	conf := &internal.VertexAIConfig{
		ProjectID: "test-project",
		Location:  "europe-west4",
		Creds: &google.Credentials{
			ProjectID:   "test-project",
			TokenSource: &internal.MockTokenSource{AccessToken: "test-token"},
		},
	}
	client, err := NewClient(context.Background(), conf)
	if err != nil {
		t.Fatal(err)
	}
	if client.Location() != "europe-west4" {
		t.Errorf("Location() = %q; want = %q", client.Location(), "europe-west4")
	}
}

func TestNewClientNoProject(t *testing.T) {
	conf := &internal.VertexAIConfig{
		Location: "us-central1",
		Creds: &google.Credentials{
			TokenSource: &internal.MockTokenSource{AccessToken: "test-token"},
		},
	}
	if _, err := NewClient(context.Background(), conf); !IsInvalidState(err) {
		t.Errorf("NewClient() = %v; want = InvalidState", err)
	}
}
