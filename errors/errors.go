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

// Package errors defines the sentinel errors surfaced by the Gokka routing
// engine. Callers discriminate failures with errors.Is against these values.
package errors

import "errors"

var (
	// ErrConfigurationIncomplete is returned when configuration-driven routing was
	// requested but no source (deployment configuration, explicit deploy, code default)
	// yields a complete router specification. The error is deterministic and is never
	// retried.
	ErrConfigurationIncomplete = errors.New("router configuration is incomplete")

	// ErrConfigurationMalformed is returned when a deployment entry's shape contradicts
	// its declared router kind, or when a dispatcher substitution cannot be resolved to
	// a literal settings block.
	ErrConfigurationMalformed = errors.New("router configuration is malformed")

	// ErrInvalidRouterPoolSize is returned when a pool router is configured with a
	// number of instances less than or equal to zero.
	ErrInvalidRouterPoolSize = errors.New("invalid router pool size, must be greater than zero")

	// ErrRouterNotStarted is a transient signal returned when a router's effective
	// configuration is read before the router has finished starting. Callers are
	// expected to retry with backoff.
	ErrRouterNotStarted = errors.New("router has not started")

	// ErrRouteeResolutionTimeout is returned when a group router could not resolve one
	// or more of its configured routee paths within the bounded retry window. The
	// router is left unusable.
	ErrRouteeResolutionTimeout = errors.New("routee resolution timed out")

	// ErrNotARouter is returned when router introspection is attempted on an actor
	// that was created without any router.
	ErrNotARouter = errors.New("actor is not a router")

	// ErrDispatcherNotFound is returned when a dispatcher reference points at a
	// configuration path that holds no settings.
	ErrDispatcherNotFound = errors.New("dispatcher is not defined")

	// ErrDuplicateDeploymentPattern is returned when the deployment configuration
	// declares the same path pattern more than once.
	ErrDuplicateDeploymentPattern = errors.New("duplicate deployment path pattern")

	// ErrInvalidPath is returned when an actor path or path pattern is syntactically
	// invalid.
	ErrInvalidPath = errors.New("invalid actor path")

	// ErrActorNotFound is returned when the specified actor could not be found in
	// the system.
	ErrActorNotFound = errors.New("actor not found")

	// ErrActorAlreadyExists is returned when trying to create an actor with a name
	// that already exists.
	ErrActorAlreadyExists = errors.New("actor already exists")

	// ErrActorSystemNotStarted is returned when an actor system is used before it
	// has been started.
	ErrActorSystemNotStarted = errors.New("actor system is not running")

	// ErrNameRequired is returned when an actor system name is required but not
	// provided.
	ErrNameRequired = errors.New("actor system name is required")

	// ErrDead is returned when a message is sent to an actor that is no longer
	// running.
	ErrDead = errors.New("actor is not alive")
)
