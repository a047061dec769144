// MIT License
//
// Copyright (c) 2024-2026 Gokka Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package router

import (
	"github.com/google/uuid"

	"github.com/gokka/gokka/deployment"
)

// Descriptor is the validated blueprint of a router: the effective
// configuration plus the selection strategy matching its kind. It is
// produced synchronously at actor-creation time.
type Descriptor struct {
	id       string
	config   deployment.RouterConfig
	strategy Strategy
}

// Build validates the effective configuration and turns it into a router
// descriptor. Validation failures surface here, at creation time, never at
// first message send.
func Build(config deployment.RouterConfig) (*Descriptor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	strategy, err := strategyFor(config.Kind)
	if err != nil {
		return nil, err
	}
	return &Descriptor{
		id:       uuid.NewString(),
		config:   config,
		strategy: strategy,
	}, nil
}

// ID returns the unique identifier of the router instance being built.
func (x *Descriptor) ID() string {
	return x.id
}

// Config returns the effective router configuration.
func (x *Descriptor) Config() deployment.RouterConfig {
	return x.config
}

// Strategy returns the selection strategy for the router's kind.
func (x *Descriptor) Strategy() Strategy {
	return x.strategy
}
