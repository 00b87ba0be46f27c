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

// Package platforminfo keeps track of the Firebase libraries linked into the running process,
// and renders them into the client header sent with every backend request.
package platforminfo

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LibraryVersion names a library and the version of it that is in use.
type LibraryVersion struct {
	Name    string `validate:"required,excludesall=/ "`
	Version string `validate:"required,excludesall=/ "`
}

// String returns the "name/version" form of the LibraryVersion.
func (lv LibraryVersion) String() string {
	return fmt.Sprintf("%s/%s", lv.Name, lv.Version)
}

// Validate checks that both the name and the version are present, and that neither contains
// characters that would break the client header.
func (lv LibraryVersion) Validate() error {
	if err := validate.Struct(lv); err != nil {
		return fmt.Errorf("invalid library version %q: %w", lv.String(), err)
	}
	return nil
}

// Registry is a set of LibraryVersions, safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	versions map[string]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{versions: make(map[string]string)}
}

// Register adds lv to the registry.
//
// Registering the same name and version more than once is a no-op. Register returns an error if
// lv is invalid, or if a different version of the same library is already registered.
func (r *Registry) Register(lv LibraryVersion) error {
	if err := lv.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.versions[lv.Name]; ok {
		if existing == lv.Version {
			return nil
		}
		return fmt.Errorf("library %q is already registered with version %q; cannot register version %q",
			lv.Name, existing, lv.Version)
	}
	r.versions[lv.Name] = lv.Version
	return nil
}

// Versions returns all registered LibraryVersions, sorted by name.
func (r *Registry) Versions() []LibraryVersion {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]LibraryVersion, 0, len(r.versions))
	for name, version := range r.versions {
		result = append(result, LibraryVersion{Name: name, Version: version})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// UserAgent renders the registered libraries as a space separated list of name/version pairs.
func (r *Registry) UserAgent() string {
	versions := r.Versions()
	parts := make([]string, len(versions))
	for i, v := range versions {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide Registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a library to the process-wide Registry.
func Register(name, version string) error {
	return defaultRegistry.Register(LibraryVersion{Name: name, Version: version})
}

// UserAgent renders the process-wide Registry.
func UserAgent() string {
	return defaultRegistry.UserAgent()
}
