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

package actor

import (
	"time"

	"github.com/knadh/koanf/v2"

	"github.com/gokka/gokka/deployment"
	"github.com/gokka/gokka/log"
)

// Option is the interface that applies a configuration option to the actor
// system.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(system *ActorSystem)
}

var _ Option = option(nil)

// option implements the Option interface.
type option func(system *ActorSystem)

// Apply applies the options to the actor system.
func (f option) Apply(system *ActorSystem) {
	f(system)
}

// WithLogger sets the logger the actor system uses.
func WithLogger(logger log.Logger) Option {
	return option(func(system *ActorSystem) {
		system.logger = logger
	})
}

// WithKoanf sets the configuration tree. The deployment section under
// deployment.Root is parsed out of it at system creation, and dispatcher
// references resolve against it.
func WithKoanf(k *koanf.Koanf) Option {
	return option(func(system *ActorSystem) {
		system.conf = k
	})
}

// WithDeployment sets an already-parsed deployment configuration snapshot,
// taking precedence over the deployment section of the configuration tree.
func WithDeployment(config *deployment.Config) Option {
	return option(func(system *ActorSystem) {
		system.deployments = config
	})
}

// WithGroupResolutionInterval sets the poll interval used while resolving a
// group router's routee paths. Non-positive values fall back to the default.
func WithGroupResolutionInterval(interval time.Duration) Option {
	return option(func(system *ActorSystem) {
		system.groupInterval = interval
	})
}

// WithGroupResolutionTimeout bounds the window within which a group
// router's routee paths must resolve before the router is marked failed.
// Non-positive values fall back to the default.
func WithGroupResolutionTimeout(timeout time.Duration) Option {
	return option(func(system *ActorSystem) {
		system.groupTimeout = timeout
	})
}
