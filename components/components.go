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

// Package components contains the registration contract Firebase libraries use to describe
// themselves to the hosting App.
//
// A library exposes a Registrar, which lists the Components it contributes. One of those
// Components is usually a LibraryVersionComponent, which is how the library version ends up in
// the process-wide platforminfo registry.
package components

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"firebase.google.com/go/vertexai/platforminfo"
)

// LibraryVersionInterface identifies Components that provide a platforminfo.LibraryVersion.
const LibraryVersionInterface = "platforminfo.LibraryVersion"

// Factory creates the instance provided by a Component.
type Factory func(ctx context.Context) (interface{}, error)

// Component describes one instance a library contributes to the App.
type Component struct {
	// Name is an optional, explicit name of the Component.
	Name string

	// Provides lists the interfaces the Component's instance satisfies.
	Provides []string

	// Dependencies lists the interfaces the Component needs to be constructed.
	Dependencies []string

	Factory Factory
}

// ProvidesInterface reports whether the Component provides the named interface.
func (c *Component) ProvidesInterface(name string) bool {
	for _, p := range c.Provides {
		if p == name {
			return true
		}
	}
	return false
}

// WithFactory returns a copy of the Component that uses f to create its instance.
func (c *Component) WithFactory(f Factory) *Component {
	cp := *c
	cp.Factory = f
	return &cp
}

// Registrar is implemented by every library that contributes Components to an App.
type Registrar interface {
	Components() []*Component
}

// RegistrarFunc adapts a function into a Registrar.
type RegistrarFunc func() []*Component

// Components returns f().
func (f RegistrarFunc) Components() []*Component {
	return f()
}

// LibraryVersionComponent creates a Component that provides the given library version.
func LibraryVersionComponent(name, version string) *Component {
	lv := platforminfo.LibraryVersion{Name: name, Version: version}
	return &Component{
		Provides: []string{LibraryVersionInterface},
		Factory: func(ctx context.Context) (interface{}, error) {
			return lv, nil
		},
	}
}

// RegisterLibraryVersions records every library version contributed by the given registrars in
// registry.
//
// All registrars are processed even when some of them fail; the returned error lists every
// failure.
func RegisterLibraryVersions(ctx context.Context, registry *platforminfo.Registry, registrars ...Registrar) error {
	var result *multierror.Error
	for _, r := range registrars {
		for _, c := range r.Components() {
			if !c.ProvidesInterface(LibraryVersionInterface) {
				continue
			}
			v, err := c.Factory(ctx)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			lv, ok := v.(platforminfo.LibraryVersion)
			if !ok {
				result = multierror.Append(result,
					fmt.Errorf("component provides %s but created %T", LibraryVersionInterface, v))
				continue
			}
			if err := registry.Register(lv); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}
