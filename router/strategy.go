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

// Package router builds and runs live router instances out of effective
// router configurations produced by the deployment resolver.
package router

import (
	"fmt"
	"math/rand"

	"go.uber.org/atomic"

	"github.com/gokka/gokka/deployment"
	"github.com/gokka/gokka/errors"
)

// Strategy selects which routees out of n receive the next message.
type Strategy interface {
	// Pick returns the indices of the routees to dispatch to. n is the
	// current routee count and is always positive.
	Pick(n int) []int
}

// roundRobin rotates over the routee set so that for n routees, n messages
// sent through the router forward one message to each.
type roundRobin struct {
	next atomic.Uint32
}

func (x *roundRobin) Pick(n int) []int {
	// modulo before the int conversion so the counter can wrap freely
	return []int{int((x.next.Add(1) - 1) % uint32(n))}
}

// random selects one routee per message.
type random struct{}

func (random) Pick(n int) []int {
	return []int{rand.Intn(n)}
}

// broadcast forwards every message to all routees.
type broadcast struct{}

func (broadcast) Pick(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// strategyFor maps a router kind to its selection strategy. The mapping is
// exhaustive over the closed kind set, so the concrete variant named in
// configuration is exactly the one built.
func strategyFor(kind deployment.Kind) (Strategy, error) {
	switch kind {
	case deployment.RoundRobinPool, deployment.RoundRobinGroup:
		return &roundRobin{}, nil
	case deployment.RandomPool, deployment.RandomGroup:
		return random{}, nil
	case deployment.BroadcastPool, deployment.BroadcastGroup:
		return broadcast{}, nil
	default:
		return nil, fmt.Errorf("%w: no strategy for kind %q", errors.ErrConfigurationMalformed, kind)
	}
}
