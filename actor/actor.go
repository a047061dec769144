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

// Package actor hosts the minimal actor runtime the routing engine plugs
// into: process identities, a registry keyed by actor path, and the
// creation-time API that resolves and attaches routers.
package actor

import (
	"context"
)

// Actor is the contract every actor implements.
type Actor interface {
	// PreStart is executed before the actor starts processing messages.
	PreStart(ctx context.Context) error
	// Receive handles messages delivered to the actor's mailbox.
	Receive(ctx *ReceiveContext)
	// PostStop is executed when the actor is shutting down.
	PostStop(ctx context.Context) error
}

// ReceiveContext carries a delivered message together with the receiving
// actor's identity.
type ReceiveContext struct {
	ctx     context.Context
	message any
	self    *PID
}

// Context returns the context attached to the message delivery.
func (x *ReceiveContext) Context() context.Context {
	return x.ctx
}

// Message returns the delivered message.
func (x *ReceiveContext) Message() any {
	return x.message
}

// Self returns the PID of the actor processing the message.
func (x *ReceiveContext) Self() *PID {
	return x.self
}
