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

// Package deployment resolves the router specification governing an actor
// being created.
//
// A router specification can come from three sources: the deployment
// configuration (highest precedence), an explicit deploy supplied alongside
// the creation call, and the code-level default embedded in the actor's
// props (lowest precedence). The winning source replaces the specification
// wholesale; fields are never merged across sources.
package deployment

import (
	"fmt"

	"github.com/gokka/gokka/errors"
)

// Kind identifies one of the closed set of router variants. A kind is
// either a pool, which spawns and owns its routees, or a group, which
// references pre-existing actors by path.
type Kind int

const (
	// UnspecifiedKind is the zero value and denotes the absence of a router.
	UnspecifiedKind Kind = iota
	// RoundRobinPool rotates over a set of spawned routees.
	RoundRobinPool
	// RandomPool picks a random spawned routee per message.
	RandomPool
	// BroadcastPool forwards every message to all spawned routees.
	BroadcastPool
	// RoundRobinGroup rotates over a fixed list of pre-existing actors.
	RoundRobinGroup
	// RandomGroup picks a random member of a fixed list of pre-existing actors.
	RandomGroup
	// BroadcastGroup forwards every message to all members of a fixed list of
	// pre-existing actors.
	BroadcastGroup
)

const (
	roundRobinPoolName  = "round-robin-pool"
	randomPoolName      = "random-pool"
	broadcastPoolName   = "broadcast-pool"
	roundRobinGroupName = "round-robin-group"
	randomGroupName     = "random-group"
	broadcastGroupName  = "broadcast-group"
)

// IsPool returns true when the kind spawns and owns its routees.
func (x Kind) IsPool() bool {
	switch x {
	case RoundRobinPool, RandomPool, BroadcastPool:
		return true
	default:
		return false
	}
}

// IsGroup returns true when the kind references pre-existing actors by path.
func (x Kind) IsGroup() bool {
	switch x {
	case RoundRobinGroup, RandomGroup, BroadcastGroup:
		return true
	default:
		return false
	}
}

// String returns the configuration spelling of the kind.
func (x Kind) String() string {
	switch x {
	case RoundRobinPool:
		return roundRobinPoolName
	case RandomPool:
		return randomPoolName
	case BroadcastPool:
		return broadcastPoolName
	case RoundRobinGroup:
		return roundRobinGroupName
	case RandomGroup:
		return randomGroupName
	case BroadcastGroup:
		return broadcastGroupName
	default:
		return "unspecified"
	}
}

// ParseKind parses the configuration spelling of a router kind. Unknown
// spellings fail with ErrConfigurationMalformed: an unrecognized kind is
// never silently substituted with another one.
func ParseKind(s string) (Kind, error) {
	switch s {
	case roundRobinPoolName:
		return RoundRobinPool, nil
	case randomPoolName:
		return RandomPool, nil
	case broadcastPoolName:
		return BroadcastPool, nil
	case roundRobinGroupName:
		return RoundRobinGroup, nil
	case randomGroupName:
		return RandomGroup, nil
	case broadcastGroupName:
		return BroadcastGroup, nil
	default:
		return UnspecifiedKind, fmt.Errorf("%w: unknown router kind %q", errors.ErrConfigurationMalformed, s)
	}
}
