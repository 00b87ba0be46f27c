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

package components

import (
	"context"
	"runtime/debug"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"firebase.google.com/go/vertexai/platforminfo"
)

// Monitoring instruments Component factories so that their initialization shows up as a trace.
//
// Registrars usually define more than one Component, but only one of them matters for startup
// time, and traces need stable, meaningful names. Monitoring picks the Components to trace as
// follows:
//
//  1. If any Component has an explicit Name, only the named Components are traced, each under
//     its own name.
//  2. Registrars with fewer than 2 Components are left alone.
//  3. The registrar must contribute exactly one dependency-free LibraryVersion Component, whose
//     library name becomes the trace name. Otherwise nothing is traced.
//  4. The first Component that does not provide a LibraryVersion is traced.
type Monitoring struct {
	tracer trace.Tracer
}

// NewMonitoring creates a Monitoring processor that records spans with tracer.
func NewMonitoring(tracer trace.Tracer) *Monitoring {
	return &Monitoring{tracer: tracer}
}

// ProcessRegistrar returns the Components of r, with the selected factories wrapped in a span.
func (m *Monitoring) ProcessRegistrar(ctx context.Context, r Registrar) []*Component {
	components := r.Components()
	if anyHasExplicitName(components) {
		return m.wrapWithNames(ctx, components)
	}
	if len(components) < 2 {
		return components
	}
	lv, ok := findTheOnlyLibraryVersion(ctx, components)
	if !ok {
		return components
	}

	result := make([]*Component, 0, len(components))
	foundFirst := false
	for _, c := range components {
		if !foundFirst && !c.ProvidesInterface(LibraryVersionInterface) {
			foundFirst = true
			c = c.WithFactory(m.wrap(lv.Name, lv.Version, c.Factory))
		}
		result = append(result, c)
	}
	return result
}

func (m *Monitoring) wrapWithNames(ctx context.Context, components []*Component) []*Component {
	if len(components) < 2 {
		return components
	}
	lv, ok := findTheOnlyLibraryVersion(ctx, components)
	if !ok {
		return components
	}

	result := make([]*Component, 0, len(components))
	for _, c := range components {
		if c.Name != "" {
			c = c.WithFactory(m.wrap(c.Name, lv.Version, c.Factory))
		}
		result = append(result, c)
	}
	return result
}

func (m *Monitoring) wrap(name, version string, f Factory) Factory {
	return func(ctx context.Context) (interface{}, error) {
		ctx, span := m.tracer.Start(ctx, name)
		defer span.End()
		span.SetAttributes(
			attribute.String("version", version),
			attribute.String("optimized", IsAppOptimized()),
		)
		return f(ctx)
	}
}

func anyHasExplicitName(components []*Component) bool {
	for _, c := range components {
		if c.Name != "" {
			return true
		}
	}
	return false
}

func findTheOnlyLibraryVersion(ctx context.Context, components []*Component) (platforminfo.LibraryVersion, bool) {
	var result *platforminfo.LibraryVersion
	for _, c := range components {
		if !c.ProvidesInterface(LibraryVersionInterface) || len(c.Dependencies) > 0 {
			continue
		}
		if result != nil {
			return platforminfo.LibraryVersion{}, false
		}
		v, err := c.Factory(ctx)
		if err != nil {
			continue
		}
		if lv, ok := v.(platforminfo.LibraryVersion); ok {
			result = &lv
		}
	}
	if result == nil {
		return platforminfo.LibraryVersion{}, false
	}
	return *result, true
}

// IsAppOptimized reports whether the running binary was built with -trimpath.
func IsAppOptimized() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return strconv.FormatBool(false)
	}
	for _, s := range info.Settings {
		if s.Key == "-trimpath" {
			return s.Value
		}
	}
	return strconv.FormatBool(false)
}
