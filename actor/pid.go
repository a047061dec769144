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
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/atomic"

	"github.com/gokka/gokka/address"
	"github.com/gokka/gokka/errors"
	"github.com/gokka/gokka/router"
)

const defaultMailboxCapacity = 256

type envelope struct {
	ctx     context.Context
	message any
}

// PID is the live reference to a running actor. Messages sent through a PID
// whose actor carries a router are fanned out to the router's routees; all
// other messages go to the actor's own mailbox.
type PID struct {
	name       string
	path       address.Path
	actor      Actor
	mailbox    chan envelope
	stop       chan struct{}
	running    atomic.Bool
	throughput int
	// routerInstance is nil for plain actors
	routerInstance *router.Instance

	stopOnce sync.Once
	loopDone sync.WaitGroup
}

// enforce compilation error
var _ router.Routee = (*PID)(nil)

func newPID(path address.Path, actor Actor, throughput int) *PID {
	if throughput < 1 {
		throughput = 1
	}
	return &PID{
		name:       path.Name(),
		path:       path,
		actor:      actor,
		mailbox:    make(chan envelope, defaultMailboxCapacity),
		stop:       make(chan struct{}),
		throughput: throughput,
	}
}

// start runs the actor's PreStart hook and begins the receive loop.
func (x *PID) start(ctx context.Context) error {
	if err := x.actor.PreStart(ctx); err != nil {
		return fmt.Errorf("actor %q failed to start: %w", x.path, err)
	}
	x.running.Store(true)
	x.loopDone.Add(1)
	go x.receiveLoop()
	return nil
}

// receiveLoop drains the mailbox, yielding the scheduling slot after
// throughput consecutive messages.
func (x *PID) receiveLoop() {
	defer x.loopDone.Done()
	processed := 0
	for {
		select {
		case <-x.stop:
			return
		case received := <-x.mailbox:
			x.actor.Receive(&ReceiveContext{
				ctx:     received.ctx,
				message: received.message,
				self:    x,
			})
			processed++
			if processed >= x.throughput {
				processed = 0
				runtime.Gosched()
			}
		}
	}
}

// shutdown stops the receive loop and runs the actor's PostStop hook.
// Pending mailbox messages are dropped.
func (x *PID) shutdown(ctx context.Context) error {
	if !x.running.CompareAndSwap(true, false) {
		return nil
	}
	x.stopOnce.Do(func() {
		close(x.stop)
	})
	x.loopDone.Wait()
	if err := x.actor.PostStop(ctx); err != nil {
		return fmt.Errorf("actor %q failed to stop cleanly: %w", x.path, err)
	}
	return nil
}

// Name returns the actor's name, the last segment of its path.
func (x *PID) Name() string {
	return x.name
}

// Path returns the actor's path.
func (x *PID) Path() address.Path {
	return x.path
}

// IsRunning returns true while the actor processes messages.
func (x *PID) IsRunning() bool {
	return x.running.Load()
}

// Router returns the router instance attached to the actor, or nil for a
// plain actor.
func (x *PID) Router() *router.Instance {
	return x.routerInstance
}

// Tell delivers a message to the actor. When a router is attached the
// message is dispatched to the router's routees instead of the actor's own
// mailbox; until the router has started this fails with the transient
// ErrRouterNotStarted.
func (x *PID) Tell(ctx context.Context, message any) error {
	if !x.running.Load() {
		return fmt.Errorf("%w: %q", errors.ErrDead, x.path)
	}
	if x.routerInstance != nil {
		return x.routerInstance.Route(ctx, message)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-x.stop:
		return fmt.Errorf("%w: %q", errors.ErrDead, x.path)
	case x.mailbox <- envelope{ctx: ctx, message: message}:
		return nil
	}
}

// Send delivers a message to the actor's own mailbox. It is how routers
// reach their routees.
func (x *PID) Send(ctx context.Context, message any) error {
	if !x.running.Load() {
		return fmt.Errorf("%w: %q", errors.ErrDead, x.path)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-x.stop:
		return fmt.Errorf("%w: %q", errors.ErrDead, x.path)
	case x.mailbox <- envelope{ctx: ctx, message: message}:
		return nil
	}
}

// String returns the actor's path.
func (x *PID) String() string {
	return x.path.String()
}
