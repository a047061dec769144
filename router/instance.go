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
	"context"
	"fmt"

	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/gokka/gokka/deployment"
	"github.com/gokka/gokka/errors"
)

// State is the externally visible lifecycle state of a router instance.
type State int32

const (
	// Uninitialized means construction has not begun.
	Uninitialized State = iota
	// Starting means routee provisioning is in flight. Reads of the effective
	// configuration return a transient not-started signal.
	Starting
	// Started means the routee set is published and the router dispatches.
	Started
	// Failed means provisioning failed; the router is unusable.
	Failed
)

// String returns the state name.
func (x State) String() string {
	switch x {
	case Starting:
		return "starting"
	case Started:
		return "started"
	case Failed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Routee is a live reference a router dispatches to.
type Routee interface {
	fmt.Stringer
	// Send delivers a message to the routee.
	Send(ctx context.Context, message any) error
}

// Instance is a live router attached to an actor's dispatch cell. Routees
// and state are published atomically: a concurrent reader either observes
// the fully-built instance or a well-defined not-started result, never a
// partially constructed one.
//
// A pool instance owns the routees it spawned; a group instance holds
// non-owned references resolved by path.
type Instance struct {
	id       string
	config   deployment.RouterConfig
	strategy Strategy
	state    atomic.Int32
	failure  atomic.Error
	// routees is written once, before the state moves to Started
	routees atomic.Value
}

// NewInstance creates an uninitialized instance from a built descriptor.
func NewInstance(descriptor *Descriptor) *Instance {
	return &Instance{
		id:       descriptor.ID(),
		config:   descriptor.Config(),
		strategy: descriptor.Strategy(),
	}
}

// ID returns the unique identifier of the router instance.
func (x *Instance) ID() string {
	return x.id
}

// State returns the current lifecycle state.
func (x *Instance) State() State {
	return State(x.state.Load())
}

// MarkStarting moves the instance into the Starting state.
func (x *Instance) MarkStarting() {
	x.state.Store(int32(Starting))
}

// Start publishes the routee set and moves the instance into the Started
// state. The routee slice must not be mutated afterwards.
func (x *Instance) Start(routees []Routee) {
	x.routees.Store(routees)
	x.state.Store(int32(Started))
}

// Fail records the provisioning failure and moves the instance into the
// Failed state.
func (x *Instance) Fail(err error) {
	x.failure.Store(err)
	x.state.Store(int32(Failed))
}

// Config returns the effective router configuration once the instance has
// started. The returned value is the caller's own copy; mutating it does
// not affect the instance. While the instance is Uninitialized or Starting
// it returns the transient ErrRouterNotStarted; once Failed it returns the
// recorded provisioning failure.
func (x *Instance) Config() (deployment.RouterConfig, error) {
	switch x.State() {
	case Started:
		return x.config.Copy(), nil
	case Failed:
		return deployment.RouterConfig{}, x.failure.Load()
	default:
		return deployment.RouterConfig{}, errors.ErrRouterNotStarted
	}
}

// Kind returns the concrete router variant.
func (x *Instance) Kind() deployment.Kind {
	return x.config.Kind
}

// Routees returns the published routee set, or false while the instance has
// not started.
func (x *Instance) Routees() ([]Routee, bool) {
	if x.State() != Started {
		return nil, false
	}
	routees, _ := x.routees.Load().([]Routee)
	return routees, true
}

// Route fans the message out to the routees selected by the instance's
// strategy. It fails with ErrRouterNotStarted until the instance starts.
func (x *Instance) Route(ctx context.Context, message any) error {
	routees, ok := x.Routees()
	if !ok {
		if failure := x.failure.Load(); failure != nil {
			return failure
		}
		return errors.ErrRouterNotStarted
	}
	if len(routees) == 0 {
		return errors.ErrDead
	}

	var err error
	for _, index := range x.strategy.Pick(len(routees)) {
		err = multierr.Append(err, routees[index].Send(ctx, message))
	}
	return err
}
