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
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics counts requests and normalized failures. A nil *metrics records nothing.
type metrics struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "firebase",
		Subsystem: "vertexai",
		Name:      "requests_total",
		Help:      "Number of requests sent to the generative model backend.",
	}, []string{"method"}))
	if err != nil {
		return nil, err
	}

	errs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "firebase",
		Subsystem: "vertexai",
		Name:      "errors_total",
		Help:      "Number of failed requests, by error code.",
	}, []string{"method", "code"}))
	if err != nil {
		return nil, err
	}

	return &metrics{
		requests: requests,
		errors:   errs,
	}, nil
}

// registerCounterVec registers c with reg, or returns the identical collector registered by an
// earlier client.
func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func (m *metrics) request(method string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method).Inc()
}

func (m *metrics) failure(method string, code ErrorCode) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, string(code)).Inc()
}
